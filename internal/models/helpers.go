package models

import (
	"gorm.io/gorm"

	"storefront/internal/utils"
)

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Supplier{},
		&Product{},
		&Ad{},
		&Order{},
		&OrderItem{},
		&WhatsappConfig{},
		&WelcomeMessage{},
		&Lead{},
		&NotificationConfig{},
		&File{},
		&PasswordReset{},
		&AuthTransaction{},
	}
}

func GetFileByID(id string, db *gorm.DB) (*File, error) {
	file := &File{}
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// FindUserByLogin looks a live user up by a classified login key.
func FindUserByLogin(db *gorm.DB, key utils.LoginKey) (*User, error) {
	query := db.Where("is_deleted = ?", false)
	switch key.Kind {
	case utils.LoginByEmail:
		query = query.Where("email = ?", key.Value)
	case utils.LoginByPhone:
		query = query.Where("phone = ?", key.Value)
	default:
		return nil, gorm.ErrRecordNotFound
	}
	user := &User{}
	if err := query.First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ActiveWhatsappConfig returns the config currently flagged active, or gorm.ErrRecordNotFound.
func ActiveWhatsappConfig(db *gorm.DB) (*WhatsappConfig, error) {
	cfg := &WhatsappConfig{}
	res := db.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("updated_at desc").Limit(1).Find(cfg)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// no active config is the normal state before setup; Find keeps gorm from logging it
		return nil, gorm.ErrRecordNotFound
	}
	return cfg, nil
}
