package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atelier-backend/pkg/enums"
	"atelier-backend/pkg/types"
)

// Order is the read-mostly record of a completed purchase, created only by
// checkout finalization. Status is deliberately free text in the data layer.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	CheckoutID      uuid.UUID           `gorm:"column:checkout_id;type:uuid;not null;uniqueIndex"`
	ShippingAddress *types.Address      `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod   string              `gorm:"column:payment_method;not null"`
	TotalPrice      decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentDetails  types.JSONMap       `gorm:"column:payment_details;type:jsonb;serializer:json"`
	IsPaid          bool                `gorm:"column:is_paid;not null;default:false"`
	PaidAt          *time.Time          `gorm:"column:paid_at"`
	IsDelivered     bool                `gorm:"column:is_delivered;not null;default:false"`
	DeliveredAt     *time.Time          `gorm:"column:delivered_at"`
	Status          string              `gorm:"column:status;not null;default:'Pending'"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User            *User               `gorm:"foreignKey:UserID"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
