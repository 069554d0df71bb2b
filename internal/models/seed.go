package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/utils"
	console "storefront/internal/utils/logger"
)

var log = console.New("SEEDER")

// ErrAdminSeedIncomplete is returned when neither an email nor a phone, or no password, is configured.
var ErrAdminSeedIncomplete = errors.New("admin seed needs ADMIN_PASSWORD and ADMIN_EMAIL or ADMIN_PHONE")

var defaultNotificationKeys = []string{
	NotificationKeyOrders,
	NotificationKeyLeads,
	NotificationKeyUsers,
}

// SeedNotificationConfigs makes sure every notification key has a row.
func SeedNotificationConfigs(db *gorm.DB) error {
	for _, key := range defaultNotificationKeys {
		row := NotificationConfig{Key: key}
		if err := db.Where(NotificationConfig{Key: key}).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("failed to seed notification config %s: %w", key, err)
		}
	}
	return nil
}

// SeedAdmin creates the first ADMIN account from configuration when no admin exists.
// It reports whether a user was created.
func SeedAdmin(db *gorm.DB, admin config.AdminSeedConfig, cost int) (bool, error) {
	var count int64
	if err := db.Model(&User{}).Where("role = ? AND is_deleted = ?", UserRoleAdmin, false).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	log.Info("Admin count: %d", count)
	if count > 0 {
		return false, nil
	}

	if admin.Password == "" || (admin.Email == "" && admin.Phone == "") {
		return false, ErrAdminSeedIncomplete
	}

	hashed, err := utils.HashPassword(admin.Password, cost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Name:     admin.Name,
		Email:    optional(&admin.Email),
		Phone:    optional(&admin.Phone),
		Password: hashed,
		Role:     UserRoleAdmin,
	}
	user.Normalize()

	if err := db.Create(&user).Error; err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Success("Created admin %s", user.Identifier())
	return true, nil
}
