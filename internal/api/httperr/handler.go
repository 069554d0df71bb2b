// Package httperr turns handler errors into the JSON error envelope.
package httperr

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/api/validator"
	"storefront/internal/services"
	console "storefront/internal/utils/logger"
)

var log = console.New("HTTP-ERROR")

// Handler is the echo HTTPErrorHandler for the API.
func Handler(err error, c echo.Context) {
	code, message, fields := classify(err)

	if code == http.StatusInternalServerError {
		_ = log.Error("%s %s", err, c.Request().Method, c.Request().URL.Path)
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		body := map[string]interface{}{
			"error": message,
			"code":  code,
			"time":  time.Now().Format(time.RFC3339),
		}
		if len(fields) > 0 {
			body["fields"] = fields
		}
		err = c.JSON(code, body)
	}
	if err != nil {
		c.Echo().Logger.Error(err)
	}
}

func classify(err error) (int, interface{}, map[string]string) {
	var (
		he  *echo.HTTPError
		ve  validator.ValidationErrors
		vle *services.ValidationError
	)

	switch {
	case errors.As(err, &he):
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code), nil
		}
		return he.Code, he.Message, nil
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.First(), ve.Fields()
	case errors.As(err, &vle):
		var fields map[string]string
		if vle.Field != "" {
			fields = map[string]string{vle.Field: vle.Message}
		}
		return http.StatusBadRequest, vle.Message, fields
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", nil
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "resource not found", nil
	default:
		return http.StatusInternalServerError, "Internal server error", nil
	}
}

// BadRequest is the error for a body that does not decode.
func BadRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

// InvalidBody is returned when echo Bind fails.
var InvalidBody = BadRequest("invalid request body")
