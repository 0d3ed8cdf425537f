package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"atelier-backend/pkg/enums"
	"atelier-backend/pkg/types"
)

// Product represents a catalog listing.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   string              `gorm:"column:description;not null"`
	SKU           string              `gorm:"column:sku;not null;uniqueIndex"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPrice *decimal.Decimal    `gorm:"column:discount_price;type:numeric(12,2)"`
	CountInStock  int                 `gorm:"column:count_in_stock;not null;default:0"`
	Category      string              `gorm:"column:category;not null"`
	Brand         *string             `gorm:"column:brand"`
	Material      *string             `gorm:"column:material"`
	Gender        enums.Gender        `gorm:"column:gender;type:text;not null;default:'Unisex'"`
	Sizes         pq.StringArray      `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Colors        pq.StringArray      `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	Collections   pq.StringArray      `gorm:"column:collections;type:text[];not null;default:ARRAY[]::text[]"`
	Tags          pq.StringArray      `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Images        types.ProductImages `gorm:"column:images;type:jsonb;serializer:json"`
	IsFeatured    bool                `gorm:"column:is_featured;not null;default:false"`
	IsPublished   bool                `gorm:"column:is_published;not null;default:false"`
	Rating        float64             `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	NumReviews    int                 `gorm:"column:num_reviews;not null;default:0"`
	CreatedByID   *uuid.UUID          `gorm:"column:created_by_id;type:uuid"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
