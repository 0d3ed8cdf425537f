package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutItem is an immutable line-item snapshot attached to a checkout.
type CheckoutItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CheckoutID uuid.UUID       `gorm:"column:checkout_id;type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name       string          `gorm:"column:name;not null"`
	Image      string          `gorm:"column:image"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Size       string          `gorm:"column:size;not null"`
	Color      string          `gorm:"column:color;not null"`
	Quantity   int             `gorm:"column:quantity;not null;default:1"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
