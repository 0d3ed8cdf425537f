package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is the per-line snapshot copied from the checkout at finalize.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	Image     string          `gorm:"column:image"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Size      string          `gorm:"column:size;not null"`
	Color     string          `gorm:"column:color;not null"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
