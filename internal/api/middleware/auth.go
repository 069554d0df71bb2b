package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/utils"
	"storefront/internal/utils/logger"
)

var log = logger.New("auth_middleware")

const sessionKey = "session"

// Session is the authenticated caller of a request.
type Session struct {
	UserID string          `json:"userId"`
	Role   models.UserRole `json:"role"`
	Name   string          `json:"name"`
	Email  string          `json:"email,omitempty"`
	Phone  string          `json:"phone,omitempty"`
	Token  string          `json:"-"`
}

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*Session, error)
}

// JWTResolver accepts access tokens that are correctly signed, unexpired, backed by a live
// auth transaction and owned by a live user.
type JWTResolver struct {
	db     *gorm.DB
	tokens *utils.TokenManager
	now    func() time.Time
}

func NewJWTResolver(db *gorm.DB, tokens *utils.TokenManager) *JWTResolver {
	return &JWTResolver{db: db, tokens: tokens, now: time.Now}
}

func (r *JWTResolver) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := r.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrUnauthorized, err)
	}

	// Verify auth transaction
	transaction := &models.AuthTransaction{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ? AND is_deleted = ? AND expires_at > ?", claims.UserID, token, false, r.now()).
		First(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: auth transaction not found", services.ErrUnauthorized)
		}
		return nil, err
	}

	// Verify user exists; the stored role wins over the claim
	user := &models.User{}
	if err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", claims.UserID, false).First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", services.ErrUnauthorized)
		}
		return nil, err
	}

	session := &Session{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		Token:  token,
	}
	if user.Email != nil {
		session.Email = *user.Email
	}
	if user.Phone != nil {
		session.Phone = *user.Phone
	}
	return session, nil
}

type AuthMiddleware struct {
	resolver SessionResolver
}

func NewAuthMiddleware(resolver SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Middleware attaches the session when the request carries a valid bearer token.
// It never rejects a request; route guards decide.
func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				return next(c)
			}

			session, err := m.resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				if !errors.Is(err, services.ErrUnauthorized) {
					_ = log.Error("Failed to resolve session", err)
				} else {
					log.Debug("Ignoring token: %v", err)
				}
				return next(c)
			}

			WithSession(c, session)
			return next(c)
		}
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(tokenParts[1])
}

// WithSession stores s on the request context.
func WithSession(c echo.Context, s *Session) {
	c.Set(sessionKey, s)
}

// CurrentSession returns the request session or nil.
func CurrentSession(c echo.Context) *Session {
	if s, ok := c.Get(sessionKey).(*Session); ok {
		return s
	}
	return nil
}
