// Package dto defines the JSON shapes the HTTP layer exposes. Persistence
// models never cross the wire directly.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atelier-backend/pkg/types"
)

// Page wraps a list response with offset-pagination metadata.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Product is the catalog listing as the storefront and admin panel see it.
type Product struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	SKU           string              `json:"sku"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice *decimal.Decimal    `json:"discount_price,omitempty"`
	CountInStock  int                 `json:"count_in_stock"`
	Category      string              `json:"category"`
	Brand         *string             `json:"brand,omitempty"`
	Material      *string             `json:"material,omitempty"`
	Gender        string              `json:"gender"`
	Sizes         []string            `json:"sizes"`
	Colors        []string            `json:"colors"`
	Collections   []string            `json:"collections"`
	Tags          []string            `json:"tags"`
	Images        types.ProductImages `json:"images"`
	IsFeatured    bool                `json:"is_featured"`
	IsPublished   bool                `json:"is_published"`
	Rating        float64             `json:"rating"`
	NumReviews    int                 `json:"num_reviews"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CartItem is one cart line with its denormalized product snapshot.
type CartItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
}

// Cart is the full cart state returned by every cart mutation.
type Cart struct {
	ID         uuid.UUID       `json:"id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty"`
	GuestID    *string         `json:"guest_id,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []CartItem      `json:"items"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// LineItem is the immutable per-line snapshot on checkouts and orders.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
}

// Checkout tracks the snapshot from submission through payment.
type Checkout struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	ShippingAddress *types.Address  `json:"shipping_address,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentDetails  types.JSONMap   `json:"payment_details,omitempty"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsFinalized     bool            `json:"is_finalized"`
	FinalizedAt     *time.Time      `json:"finalized_at,omitempty"`
	Items           []LineItem      `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderUser is the owner summary embedded in admin order views.
type OrderUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
}

// Order is the completed purchase record.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	CheckoutID      uuid.UUID       `json:"checkout_id"`
	ShippingAddress *types.Address  `json:"shipping_address,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Status          string          `json:"status"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Items           []LineItem      `json:"items"`
	User            *OrderUser      `json:"user,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Summary is the back-office dashboard aggregate.
type Summary struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	LastOrders    []Order         `json:"last_orders"`
}

// Revenue reports the paid-order total and how many orders were counted.
type Revenue struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PaidOrdersCount int64           `json:"paid_orders_count"`
}

// Subscriber is a newsletter signup as the admin panel lists it.
type Subscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
