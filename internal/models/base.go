package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// ResetIdentity clears the columns a client must never set on create.
func (base *Base) ResetIdentity() {
	base.ID = ""
	base.DeletedAt = nil
	base.IsDeleted = false
}

// ImmutableColumns are never written by an update.
var ImmutableColumns = []string{"id", "created_at", "deleted_at", "is_deleted"}
