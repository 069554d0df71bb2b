package models

import (
	"time"
)

type User struct {
	Base
	Name          string   `gorm:"not null" json:"name" validate:"required,max=120"`
	Email         *string  `gorm:"uniqueIndex" json:"email" validate:"omitempty,email"`
	Phone         *string  `gorm:"uniqueIndex" json:"phone" validate:"omitempty,phone"`
	Password      string   `gorm:"not null" json:"-"`
	PlainPassword string   `gorm:"-" json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role          UserRole `gorm:"not null;default:'USER'" json:"role" validate:"omitempty,user_role"`
	Image         string   `json:"image" validate:"omitempty,url"`
}

// Identifier returns the email or phone the user signs in with.
func (u *User) Identifier() string {
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	if u.Phone != nil {
		return *u.Phone
	}
	return ""
}

type PasswordReset struct {
	Base
	User      *User     `json:"user,omitempty"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	Code      string    `gorm:"not null;index" json:"-"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthTransaction records an issued session; a token is only honored while its row exists.
type AuthTransaction struct {
	Base
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"not null;index" json:"-"`
	Refresh   string    `gorm:"not null;index" json:"-"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
}
