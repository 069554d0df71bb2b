package models

import (
	"time"

	"gorm.io/datatypes"
)

type WhatsappConfig struct {
	Base
	Label          string `json:"label" validate:"max=80"`
	PhoneNumber    string `gorm:"not null" json:"phoneNumber" validate:"required,phone"`
	WelcomeMessage string `json:"welcomeMessage" validate:"max=1000"`
	WelcomeEnabled bool   `gorm:"not null;default:false" json:"welcomeEnabled"`
	IsActive       bool   `gorm:"not null;default:false;index" json:"isActive"`
}

// WelcomeMessage marks a phone number that already received the WhatsApp welcome text.
type WelcomeMessage struct {
	Base
	Phone    string          `gorm:"uniqueIndex;not null" json:"phone"`
	ConfigID string          `gorm:"type:uuid;not null;index" json:"configId"`
	Config   *WhatsappConfig `json:"config,omitempty"`
	SentAt   time.Time       `json:"sentAt"`
}

type Lead struct {
	Base
	Phone     string         `gorm:"uniqueIndex;not null" json:"phone" validate:"required,phone"`
	Name      string         `json:"name" validate:"max=120"`
	Source    string         `gorm:"not null;default:'whatsapp'" json:"source" validate:"max=40"`
	Message   string         `json:"message" validate:"max=1000"`
	ProductID *string        `gorm:"type:uuid;index" json:"productId,omitempty"`
	Product   *Product       `json:"product,omitempty" validate:"-"`
	Metadata  datatypes.JSON `json:"metadata,omitempty" swaggertype:"object"`
}

const (
	NotificationKeyOrders = "orders"
	NotificationKeyLeads  = "leads"
	NotificationKeyUsers  = "users"
)

type NotificationConfig struct {
	Base
	Key     string `gorm:"uniqueIndex;not null" json:"key" validate:"required,oneof=orders leads users"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Enabled bool   `gorm:"not null;default:false" json:"enabled"`
}
