package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one cart line, identified by (product, size, color). Name,
// image and price are denormalized product snapshots taken at add time.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	Image     string          `gorm:"column:image"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Size      string          `gorm:"column:size;not null"`
	Color     string          `gorm:"column:color;not null"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// SameLine reports whether the line matches the (product, size, color) key.
func (i CartItem) SameLine(productID uuid.UUID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}
