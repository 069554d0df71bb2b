package validator

import "storefront/internal/models"

// RegisterRequest creates a USER account from an email or a phone number.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest accepts an email or a phone number in Login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type PasswordResetRequest struct {
	Login string `json:"login" validate:"required"`
}

type PasswordResetVerifyRequest struct {
	Login       string `json:"login" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72,nefield=OldPassword"`
}

type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,order_status"`
}

type WelcomeRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
}

type NotificationSettingRequest struct {
	Key     string `json:"key" validate:"required,oneof=orders leads users"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Enabled bool   `json:"enabled"`
}

type NotificationSettingsRequest struct {
	Settings []NotificationSettingRequest `json:"settings" validate:"required,min=1,max=3,dive"`
}
