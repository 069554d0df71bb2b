package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"storefront/internal/models"
	"storefront/internal/utils"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	return &CustomValidator{validator: newValidate()}
}

func newValidate() *playgroundvalidator.Validate {
	v := playgroundvalidator.New()

	// Report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations; the tags are static so a failure is a programming error
	mustRegister(v, "phone", validatePhone)
	mustRegister(v, "user_role", validateUserRole)
	mustRegister(v, "order_status", validateOrderStatus)

	v.RegisterStructValidation(validateUserContact, models.User{})
	v.RegisterStructValidation(validateRegisterContact, RegisterRequest{})

	return v
}

func mustRegister(v *playgroundvalidator.Validate, tag string, fn playgroundvalidator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %s: %v", tag, err))
	}
}

// Custom validation functions
func validatePhone(fl playgroundvalidator.FieldLevel) bool {
	return utils.IsPhone(fl.Field().String())
}

func validateUserRole(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidUserRole(models.UserRole(fl.Field().String()))
}

func validateOrderStatus(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidOrderStatus(models.OrderStatus(fl.Field().String()))
}

func validateUserContact(sl playgroundvalidator.StructLevel) {
	user := sl.Current().Interface().(models.User)
	if (user.Email == nil || *user.Email == "") && (user.Phone == nil || *user.Phone == "") {
		sl.ReportError(user.Email, "email", "Email", "email_or_phone", "")
	}
}

func validateRegisterContact(sl playgroundvalidator.StructLevel) {
	req := sl.Current().Interface().(RegisterRequest)
	if req.Email == "" && req.Phone == "" {
		sl.ReportError(req.Email, "email", "Email", "email_or_phone", "")
	}
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// Fields maps each failing field to a readable message.
func (ve ValidationErrors) Fields() map[string]string {
	errMap := make(map[string]string, len(ve))
	for _, err := range ve {
		errMap[fieldPath(err)] = Message(err)
	}
	return errMap
}

// First returns the message of the first failing field.
func (ve ValidationErrors) First() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	return Message(ve[0])
}

// fieldPath drops the root struct name: "Order.items[0].quantity" becomes "items[0].quantity".
func fieldPath(err playgroundvalidator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}

// Message renders a single field error
func Message(err playgroundvalidator.FieldError) string {
	field := fieldPath(err)
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "email_or_phone":
		return "email or phone is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "len":
		return fmt.Sprintf("%s must be %s characters long", field, param)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "eqfield", "nefield":
		return fmt.Sprintf("%s is invalid", field)
	case "user_role":
		return fmt.Sprintf("%s must be either 'ADMIN' or 'USER'", field)
	case "order_status":
		return fmt.Sprintf("%s must be one of: PENDING, CONFIRMED, SHIPPED, DELIVERED, CANCELLED", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, err.Tag())
	}
}
