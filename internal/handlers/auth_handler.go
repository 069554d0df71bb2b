package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/api/httperr"
	"storefront/internal/api/middleware"
	"storefront/internal/api/validator"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/utils"
	"storefront/internal/utils/logger"
)

var errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")

const resetCodeLength = 6

type AuthHandler struct {
	db     *gorm.DB
	tokens *utils.TokenManager
	auth   config.AuthConfig
	log    *logger.Logger
	now    func() time.Time
}

func NewAuthHandler(db *gorm.DB, tokens *utils.TokenManager, auth config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		db:     db,
		tokens: tokens,
		auth:   auth,
		log:    logger.New("AuthHandler"),
		now:    time.Now,
	}
}

// SessionResponse is returned by every route that opens a session.
type SessionResponse struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

func (h *AuthHandler) issueSession(c echo.Context, tx *gorm.DB, user *models.User) (*SessionResponse, error) {
	token, err := h.tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, h.log.Error("Failed to generate token", err)
	}
	refresh, err := h.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, h.log.Error("Failed to generate refresh token", err)
	}

	now := h.now()
	client := utils.ClientFromRequest(c.Request())
	transaction := &models.AuthTransaction{
		UserID:    user.ID,
		Token:     token,
		Refresh:   refresh,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
		ExpiresAt: now.Add(h.tokens.RefreshTTL()),
	}
	if err := tx.Create(transaction).Error; err != nil {
		return nil, h.log.Error("Failed to create auth transaction", err)
	}

	return &SessionResponse{
		User:         user,
		Token:        token,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(h.tokens.AccessTTL()),
	}, nil
}

func (h *AuthHandler) findByLogin(c echo.Context, raw string) (*models.User, utils.LoginKey, error) {
	key := utils.ClassifyLogin(raw)
	switch key.Kind {
	case utils.LoginByEmail, utils.LoginByPhone:
	default:
		return nil, key, services.NewValidationError("login", "login must be an email address or a phone number")
	}

	user, err := models.FindUserByLogin(h.db.WithContext(c.Request().Context()), key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, key, nil
		}
		return nil, key, err
	}
	return user, key, nil
}

// Register creates a USER account and opens a session for it.
// @Summary Register a new user
// @Description Register a new user with an email or a phone number and a password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.RegisterRequest true "Registration details"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]interface{} "Validation error or account exists"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req validator.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}

	user := &models.User{
		Name:  req.Name,
		Email: &req.Email,
		Phone: &req.Phone,
		Role:  models.UserRoleUser,
	}
	user.Normalize()
	if user.Email != nil {
		req.Email = *user.Email
	}
	if user.Phone != nil {
		req.Phone = *user.Phone
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	for _, login := range []string{req.Email, req.Phone} {
		if login == "" {
			continue
		}
		existing, _, err := h.findByLogin(c, login)
		if err != nil {
			return err
		}
		if existing != nil {
			return services.NewValidationError("login", "an account already exists for this email or phone")
		}
	}

	hashed, err := utils.HashPassword(req.Password, h.auth.BcryptCost)
	if err != nil {
		return h.log.Error("Failed to hash password", err)
	}
	user.Password = hashed

	var session *SessionResponse
	err = db.RunInTx(c.Request().Context(), h.db, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return services.NewValidationError("login", "an account already exists for this email or phone")
			}
			return err
		}
		session, err = h.issueSession(c, tx, user)
		return err
	})
	if err != nil {
		return err
	}

	events.Emit(events.UserCreated, user)

	return c.JSON(http.StatusCreated, session)
}

// Login authenticates by email or phone and opens a session.
// @Summary Login user
// @Description Authenticate with an email address or a phone number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.LoginRequest true "Login credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req validator.LoginRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, key, err := h.findByLogin(c, req.Login)
	if err != nil {
		return err
	}
	if user == nil || !utils.VerifyPassword(req.Password, user.Password) {
		h.log.Warn("Failed login by %s", key.Kind)
		return errInvalidCredentials
	}

	session, err := h.issueSession(c, h.db.WithContext(c.Request().Context()), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, session)
}

// RefreshToken rotates the token pair of a live session.
// @Summary Refresh access token
// @Description Get a new token pair using a valid refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.RefreshRequest true "Refresh token"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]interface{} "Invalid input"
// @Failure 401 {object} map[string]interface{} "Invalid refresh token"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req validator.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	claims, err := h.tokens.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return services.ErrUnauthorized
	}

	ctx := c.Request().Context()
	var transaction models.AuthTransaction
	if err := h.db.WithContext(ctx).
		Where("user_id = ? AND refresh = ? AND is_deleted = ? AND expires_at > ?", claims.UserID, req.RefreshToken, false, h.now()).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrUnauthorized
		}
		return err
	}

	var user models.User
	if err := h.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", claims.UserID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrUnauthorized
		}
		return err
	}

	var session *SessionResponse
	err = db.RunInTx(ctx, h.db, func(tx *gorm.DB) error {
		if err := revokeOnce(tx, h.now(), transaction.ID); err != nil {
			return err
		}
		session, err = h.issueSession(c, tx, &user)
		return err
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, session)
}

// revoke soft-deletes the auth transactions matching the condition and reports how many it revoked.
func revoke(tx *gorm.DB, now time.Time, query string, args ...interface{}) (int64, error) {
	res := tx.Model(&models.AuthTransaction{}).
		Where(query, args...).
		Where("is_deleted = ?", false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": &now})
	return res.RowsAffected, res.Error
}

// revokeOnce revokes a single live auth transaction. Losing the race to another refresh is unauthorized.
func revokeOnce(tx *gorm.DB, now time.Time, id string) error {
	n, err := revoke(tx, now, "id = ?", id)
	if err != nil {
		return err
	}
	if n != 1 {
		return services.ErrUnauthorized
	}
	return nil
}

// Logout revokes the session of the calling token.
// @Summary Logout
// @Description Revoke the current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Logged out"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session := middleware.CurrentSession(c)
	if err := middleware.Authorize(session, models.UserRoleUser); err != nil {
		return err
	}

	if _, err := revoke(h.db.WithContext(c.Request().Context()), h.now(), "token = ?", session.Token); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// RequestPasswordReset issues a numeric reset code. The answer does not reveal whether the account exists.
// @Summary Request password reset
// @Description Request a password reset code for an email address or a phone number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.PasswordResetRequest true "Login to reset"
// @Success 200 {object} map[string]interface{} "Reset code sent if the account exists"
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req validator.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ok := map[string]interface{}{"success": true}

	user, _, err := h.findByLogin(c, req.Login)
	if err != nil {
		return err
	}
	if user == nil {
		return c.JSON(http.StatusOK, ok)
	}

	code, err := utils.GenerateNumericCode(resetCodeLength)
	if err != nil {
		return h.log.Error("Failed to generate reset code", err)
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: h.now().Add(h.auth.ResetCodeTTL),
	}

	err = db.RunInTx(c.Request().Context(), h.db, func(tx *gorm.DB) error {
		// Only the latest code stays usable
		if err := tx.Model(&models.PasswordReset{}).
			Where("user_id = ? AND used = ?", user.ID, false).
			Update("used", true).Error; err != nil {
			return err
		}
		return tx.Create(reset).Error
	})
	if err != nil {
		return err
	}

	reset.User = user
	events.Emit(events.PasswordReset, reset)

	return c.JSON(http.StatusOK, ok)
}

// VerifyResetCode checks a reset code, sets the new password and signs every session out.
// @Summary Verify reset code and set new password
// @Description Verify password reset code and update password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.PasswordResetVerifyRequest true "Reset code verification and new password"
// @Success 200 {object} map[string]interface{} "Password reset successful"
// @Failure 400 {object} map[string]interface{} "Invalid or expired reset code"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/auth/password-reset/verify [post]
func (h *AuthHandler) VerifyResetCode(c echo.Context) error {
	var req validator.PasswordResetVerifyRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	invalid := services.NewValidationError("code", "invalid or expired reset code")

	user, _, err := h.findByLogin(c, req.Login)
	if err != nil {
		return err
	}
	if user == nil {
		return invalid
	}

	ctx := c.Request().Context()
	var reset models.PasswordReset
	if err := h.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND used = ? AND expires_at > ? AND is_deleted = ?", user.ID, req.Code, false, h.now(), false).
		First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid
		}
		return err
	}

	hashed, err := utils.HashPassword(req.NewPassword, h.auth.BcryptCost)
	if err != nil {
		return h.log.Error("Failed to hash password", err)
	}

	err = db.RunInTx(ctx, h.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("password", hashed).Error; err != nil {
			return err
		}
		if err := tx.Model(&reset).Update("used", true).Error; err != nil {
			return err
		}
		_, err := revoke(tx, h.now(), "user_id = ?", user.ID)
		return err
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// GetMe returns the signed in user.
// @Summary Get current user
// @Description Get the user of the current session
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	session := middleware.CurrentSession(c)
	if err := middleware.Authorize(session, models.UserRoleUser); err != nil {
		return err
	}

	var user models.User
	if err := h.db.WithContext(c.Request().Context()).
		Where("id = ? AND is_deleted = ?", session.UserID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrUnauthorized
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the password of the signed in user after checking the old one.
// @Summary Change password
// @Description Change the password of the current user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]interface{} "Password changed"
// @Failure 400 {object} map[string]interface{} "Validation error or wrong password"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req validator.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session := middleware.CurrentSession(c)
	if err := middleware.Authorize(session, models.UserRoleUser); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var user models.User
	if err := h.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", session.UserID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrUnauthorized
		}
		return err
	}

	if !utils.VerifyPassword(req.OldPassword, user.Password) {
		return services.NewValidationError("oldPassword", "old password is incorrect")
	}

	hashed, err := utils.HashPassword(req.NewPassword, h.auth.BcryptCost)
	if err != nil {
		return h.log.Error("Failed to hash password", err)
	}

	if err := h.db.WithContext(ctx).Model(&user).Update("password", hashed).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
