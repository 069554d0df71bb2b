package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"storefront/internal/api/httperr"
	"storefront/internal/api/middleware"
	"storefront/internal/api/validator"
	"storefront/internal/models"
)

// newEcho builds an API instance where the X-Role header stands in for a resolved session.
func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.NewValidator()
	e.HTTPErrorHandler = httperr.Handler
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role := c.Request().Header.Get("X-Role"); role != "" {
				userID := c.Request().Header.Get("X-User")
				if userID == "" {
					userID = uuid.NewString()
				}
				middleware.WithSession(c, &middleware.Session{UserID: userID, Role: models.UserRole(role)})
			}
			return next(c)
		}
	})
	return e
}

type request struct {
	method  string
	path    string
	body    string
	role    string
	headers map[string]string
	reader  io.Reader
}

func serve(e *echo.Echo, r request) *httptest.ResponseRecorder {
	body := r.reader
	if body == nil && r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if r.role != "" {
		req.Header.Set("X-Role", r.role)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func requireStatus(t *testing.T, want int, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}

