package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atelier-backend/pkg/enums"
	"atelier-backend/pkg/types"
)

// Checkout snapshots a cart at submission time. It is mutated at most twice:
// once to record payment, once to mark it finalized.
type Checkout struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	ShippingAddress *types.Address      `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod   string              `gorm:"column:payment_method;not null"`
	TotalPrice      decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentDetails  types.JSONMap       `gorm:"column:payment_details;type:jsonb;serializer:json"`
	IsPaid          bool                `gorm:"column:is_paid;not null;default:false"`
	PaidAt          *time.Time          `gorm:"column:paid_at"`
	IsFinalized     bool                `gorm:"column:is_finalized;not null;default:false"`
	FinalizedAt     *time.Time          `gorm:"column:finalized_at"`
	Items           []CheckoutItem      `gorm:"foreignKey:CheckoutID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
