package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/api/httperr"
	"storefront/internal/api/middleware"
	"storefront/internal/api/validator"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/testutil"
)

const adMissingProduct = "Le produit sélectionné n'existe pas."

func newEcho(gdb *gorm.DB) *echo.Echo {
	e := echo.New()
	e.Validator = validator.NewValidator()
	e.HTTPErrorHandler = httperr.Handler

	// X-Role stands in for a resolved bearer token.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role := c.Request().Header.Get("X-Role"); role != "" {
				middleware.WithSession(c, &middleware.Session{UserID: uuid.NewString(), Role: models.UserRole(role)})
			}
			return next(c)
		}
	})

	ads := NewBaseController(services.NewBaseService[models.Ad](gdb), Options[models.Ad]{
		Policy: Policy{Read: Public, Write: models.UserRoleAdmin},
		References: []Reference[models.Ad]{{
			Field: "productId",
			Model: &models.Product{},
			Value: func(a *models.Ad) string {
				if a.ProductID == nil {
					return ""
				}
				return *a.ProductID
			},
			Message: adMissingProduct,
		}},
		Includes: []string{"product"},
	})
	ads.RegisterRoutes(e.Group("/api/v1"), "/ads")
	return e
}

func do(e *echo.Echo, method, path, role, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		req.Header.Set("X-Role", role)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestCreateRoundTrip(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho(gdb)
	cat := testutil.CreateCategory(t, gdb, "Shoes")
	p := testutil.CreateProduct(t, gdb, cat.ID, "Runner", 59)

	rec := do(e, http.MethodPost, "/api/v1/ads", "ADMIN",
		`{"id":"forged","title":"Summer sale","position":2,"active":true,"productId":"`+p.ID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	id := created["id"].(string)
	assert.NotEqual(t, "forged", id)

	rec = do(e, http.MethodGet, "/api/v1/ads/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "Summer sale", got["title"])
	assert.Equal(t, true, got["active"])
	assert.Equal(t, p.ID, got["productId"])

	rec = do(e, http.MethodGet, "/api/v1/ads?include=product", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)
	assert.EqualValues(t, 1, list["total"])
	assert.EqualValues(t, 1, list["page"])
	assert.EqualValues(t, defaultLimit, list["limit"])
}

func TestCreateWithMissingReference(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho(gdb)

	rec := do(e, http.MethodPost, "/api/v1/ads", "ADMIN", `{"title":"Ghost","productId":"`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, adMissingProduct, decode(t, rec)["error"])
	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.Ad{}))

	rec = do(e, http.MethodPost, "/api/v1/ads", "ADMIN", `{"title":"Ghost","productId":"not-a-uuid"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.Ad{}))
}

func TestCreateRejectsBadInput(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho(gdb)

	rec := do(e, http.MethodPost, "/api/v1/ads", "ADMIN", `{"title":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decode(t, rec)["error"])

	rec = do(e, http.MethodPost, "/api/v1/ads", "ADMIN", `{"subtitle":"no title"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "title is required", body["error"])
	assert.Contains(t, body["fields"], "title")

	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.Ad{}))
}

func TestWritesNeedAdmin(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho(gdb)

	ad := &models.Ad{Title: "Original"}
	require.NoError(t, gdb.Create(ad).Error)

	for _, role := range []string{"", "USER"} {
		rec := do(e, http.MethodPost, "/api/v1/ads", role, `{"title":"New"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = do(e, http.MethodPut, "/api/v1/ads/"+ad.ID, role, `{"title":"Changed"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", decode(t, rec)["error"])

		rec = do(e, http.MethodDelete, "/api/v1/ads/"+ad.ID, role, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	var stored models.Ad
	require.NoError(t, gdb.First(&stored, "id = ?", ad.ID).Error)
	assert.Equal(t, "Original", stored.Title)
	assert.False(t, stored.IsDeleted)
	assert.EqualValues(t, 1, testutil.Count(t, gdb, &models.Ad{}))
}

func TestUpdate(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho(gdb)

	ad := &models.Ad{Title: "Original", Position: 1}
	require.NoError(t, gdb.Create(ad).Error)

	rec := do(e, http.MethodPut, "/api/v1/ads/"+ad.ID, "ADMIN", `{"id":"`+uuid.NewString()+`","title":"Changed","position":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, ad.ID, body["id"])
	assert.Equal(t, "Changed", body["title"])
	assert.EqualValues(t, 4, body["position"])

	rec = do(e, http.MethodPut, "/api/v1/ads/"+uuid.NewString(), "ADMIN", `{"title":"Nobody"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ad not found", decode(t, rec)["error"])
}

func TestDeleteTwice(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho(gdb)

	ad := &models.Ad{Title: "Short lived"}
	require.NoError(t, gdb.Create(ad).Error)

	rec := do(e, http.MethodDelete, "/api/v1/ads/"+ad.ID, "ADMIN", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodDelete, "/api/v1/ads/"+ad.ID, "ADMIN", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/ads/"+ad.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.Ad{}))
}
