package middleware

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/models"
	"storefront/internal/services"
)

// Authorize checks that s holds required. No session and the wrong role are reported alike.
func Authorize(s *Session, required models.UserRole) error {
	if s == nil || !s.Role.Satisfies(required) {
		return services.ErrUnauthorized
	}
	return nil
}

// RequireRole rejects requests whose session does not hold role.
func RequireRole(role models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := Authorize(CurrentSession(c), role); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests.
func RequireSession() echo.MiddlewareFunc {
	return RequireRole(models.UserRoleUser)
}
