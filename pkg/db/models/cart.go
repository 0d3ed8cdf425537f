package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is owned by either a registered user or an anonymous guest id.
// Exactly one of UserID and GuestID is set; TotalPrice is the authoritative
// sum of line subtotals and is recomputed on every mutation.
type Cart struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     *uuid.UUID      `gorm:"column:user_id;type:uuid;index"`
	GuestID    *string         `gorm:"column:guest_id;index"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	Items      []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
