package models

import "gorm.io/datatypes"

type Category struct {
	Base
	Name        string    `gorm:"not null" json:"name" validate:"required,min=2,max=120"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug" validate:"max=140"`
	Description string    `json:"description" validate:"max=5000"`
	Image       string    `json:"image" validate:"omitempty,url"`
	Products    []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty" validate:"-"`
}

type Supplier struct {
	Base
	Name     string    `gorm:"not null" json:"name" validate:"required,min=2,max=120"`
	Phone    string    `json:"phone" validate:"omitempty,phone"`
	Email    string    `json:"email" validate:"omitempty,email"`
	Address  string    `json:"address" validate:"max=255"`
	Notes    string    `json:"notes" validate:"max=2000"`
	Products []Product `gorm:"foreignKey:SupplierID" json:"products,omitempty" validate:"-"`
}

type Product struct {
	Base
	Name        string                      `gorm:"not null" json:"name" validate:"required,min=2,max=200"`
	Description string                      `json:"description" validate:"max=10000"`
	Price       float64                     `gorm:"not null" json:"price" validate:"gte=0"`
	OldPrice    *float64                    `json:"oldPrice,omitempty" validate:"omitempty,gte=0"`
	Stock       int                         `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	Images      datatypes.JSONSlice[string] `json:"images" validate:"max=12,dive,url"`
	Featured    bool                        `gorm:"not null;default:false" json:"featured"`
	Archived    bool                        `gorm:"not null;default:false;index" json:"archived"`
	CategoryID  string                      `gorm:"type:uuid;not null;index" json:"categoryId" validate:"required"`
	Category    *Category                   `json:"category,omitempty" validate:"-"`
	SupplierID  *string                     `gorm:"type:uuid;index" json:"supplierId,omitempty"`
	Supplier    *Supplier                   `json:"supplier,omitempty" validate:"-"`
}

type Ad struct {
	Base
	Title     string   `gorm:"not null" json:"title" validate:"required,max=160"`
	Subtitle  string   `json:"subtitle" validate:"max=255"`
	Image     string   `json:"image" validate:"omitempty,url"`
	Link      string   `json:"link" validate:"omitempty,url"`
	Position  int      `gorm:"not null;default:0" json:"position" validate:"gte=0"`
	Active    bool     `gorm:"not null;default:false" json:"active"`
	ProductID *string  `gorm:"type:uuid;index" json:"productId,omitempty"`
	Product   *Product `json:"product,omitempty" validate:"-"`
}
