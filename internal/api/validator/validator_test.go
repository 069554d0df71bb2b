package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func validationErrors(t *testing.T, err error) ValidationErrors {
	t.Helper()
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve), "expected ValidationErrors, got %v", err)
	return ve
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.Product{Price: -1})
	ve := validationErrors(t, err)

	fields := ve.Fields()
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "categoryId is required", fields["categoryId"])
	assert.Contains(t, fields, "price")
}

func TestValidatePhoneAndStatus(t *testing.T) {
	v := NewValidator()

	lead := &models.Lead{Phone: "07000000"}
	assert.NoError(t, v.Validate(lead))

	lead.Phone = "call me"
	ve := validationErrors(t, v.Validate(lead))
	assert.Equal(t, "phone must be a valid phone number", ve.First())

	ve = validationErrors(t, v.Validate(&OrderStatusRequest{Status: "LOST"}))
	assert.Contains(t, ve.First(), "status must be one of")
	assert.NoError(t, v.Validate(&OrderStatusRequest{Status: models.OrderStatusShipped}))
}

func TestValidateOrderItemsDive(t *testing.T) {
	v := NewValidator()

	order := &models.Order{
		CustomerName: "Jane",
		Phone:        "+221770000000",
		Items:        []models.OrderItem{{ProductID: "p", Quantity: 0}},
	}
	ve := validationErrors(t, v.Validate(order))
	assert.Equal(t, "items[0].quantity is required", ve.Fields()["items[0].quantity"])

	order.Items = nil
	ve = validationErrors(t, v.Validate(order))
	assert.Contains(t, ve.Fields(), "items")
}

func TestValidateUserNeedsEmailOrPhone(t *testing.T) {
	v := NewValidator()

	ve := validationErrors(t, v.Validate(&models.User{Name: "Jane"}))
	assert.Equal(t, "email or phone is required", ve.Fields()["email"])

	phone := "770000000"
	assert.NoError(t, v.Validate(&models.User{Name: "Jane", Phone: &phone}))

	ve = validationErrors(t, v.Validate(&RegisterRequest{Name: "Jane", Password: "longenough"}))
	assert.Equal(t, "email or phone is required", ve.First())
}

func TestValidateUserRole(t *testing.T) {
	v := NewValidator()
	email := "awa@example.com"

	user := &models.User{Name: "Awa", Email: &email, Role: "OWNER"}
	ve := validationErrors(t, v.Validate(user))
	assert.Equal(t, "role must be either 'ADMIN' or 'USER'", ve.Fields()["role"])

	user.Role = models.UserRoleAdmin
	assert.NoError(t, v.Validate(user))
	user.Role = ""
	assert.NoError(t, v.Validate(user))
}
