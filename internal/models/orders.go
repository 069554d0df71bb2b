package models

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValidOrderStatus checks if a given status is valid
func IsValidOrderStatus(status OrderStatus) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

type Order struct {
	Base
	CustomerName string      `gorm:"not null" json:"customerName" validate:"required,max=120"`
	Phone        string      `gorm:"not null;index" json:"phone" validate:"required,phone"`
	Email        string      `json:"email" validate:"omitempty,email"`
	Address      string      `json:"address" validate:"max=255"`
	City         string      `json:"city" validate:"max=120"`
	Note         string      `json:"note" validate:"max=1000"`
	Status       OrderStatus `gorm:"not null;default:'PENDING';index" json:"status" validate:"omitempty,order_status"`
	Total        float64     `gorm:"not null;default:0" json:"total"`
	UserID       *string     `gorm:"type:uuid;index" json:"userId,omitempty"`
	User         *User       `json:"user,omitempty" validate:"-"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty" validate:"required,min=1,max=100,dive"`
}

type OrderItem struct {
	Base
	OrderID   string   `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID string   `gorm:"type:uuid;not null;index" json:"productId" validate:"required"`
	Product   *Product `json:"product,omitempty" validate:"-"`
	Quantity  int      `gorm:"not null" json:"quantity" validate:"required,min=1,max=1000"`
	UnitPrice float64  `gorm:"not null" json:"unitPrice"`
}
