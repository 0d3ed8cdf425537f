package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"atelier-backend/pkg/db"
	"atelier-backend/pkg/db/models"
	"atelier-backend/pkg/enums"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/pagination"
	"atelier-backend/pkg/types"
)

const (
	newArrivalsLimit = 8
	similarLimit     = 4
)

// ListFilters captures the storefront catalog query.
type ListFilters struct {
	Category   string
	Gender     string
	Brand      string
	Materials  []string
	Sizes      []string
	Colors     []string
	Collection string
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	SortBy     enums.SortMode
	Limit      int
	Offset     int
}

// CatalogRepository abstracts product persistence.
type CatalogRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters) ([]models.Product, error)
	ListAdmin(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	BestSeller(ctx context.Context) (*models.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]models.Product, error)
	Similar(ctx context.Context, ref *models.Product, limit int) ([]models.Product, error)
}

// CreateInput carries the fields accepted when an admin creates a product.
type CreateInput struct {
	Name          string
	Description   string
	SKU           string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	CountInStock  int
	Category      string
	Brand         *string
	Material      *string
	Gender        string
	Sizes         []string
	Colors        []string
	Collections   []string
	Tags          []string
	Images        types.ProductImages
	IsFeatured    bool
	IsPublished   *bool
	CreatedByID   *uuid.UUID
}

// UpdateInput carries partial edits; nil fields are left untouched.
type UpdateInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	DiscountPrice *decimal.Decimal
	ClearDiscount bool
	CountInStock  *int
	Category      *string
	Brand         *string
	Material      *string
	Gender        *string
	Sizes         []string
	Colors        []string
	Collections   []string
	Tags          []string
	Images        types.ProductImages
	IsFeatured    *bool
	IsPublished   *bool
	Rating        *float64
	NumReviews    *int
}

// Service exposes catalog reads for the storefront and writes for admins.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	BestSeller(ctx context.Context) (*models.Product, error)
	NewArrivals(ctx context.Context) ([]models.Product, error)
	Similar(ctx context.Context, id uuid.UUID) ([]models.Product, error)
	ListAdmin(ctx context.Context, page pagination.Params) ([]models.Product, int64, error)
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo CatalogRepository
}

// NewService builds the catalog service.
func NewService(repo CatalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// List returns published products matching the filters.
func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	if filters.SortBy != "" && !filters.SortBy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort mode")
	}
	if filters.Gender != "" && !enums.Gender(filters.Gender).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender filter")
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && *filters.MinPrice > *filters.MaxPrice {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min price exceeds max price")
	}
	filters.Limit = pagination.NormalizeLimit(filters.Limit)

	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// GetByID returns a single product, or not-found.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.load(ctx, id)
}

// BestSeller returns the highest-rated product.
func (s *service) BestSeller(ctx context.Context) (*models.Product, error) {
	product, err := s.repo.BestSeller(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no best seller found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load best seller")
	}
	return product, nil
}

// NewArrivals returns the eight most recent additions.
func (s *service) NewArrivals(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.NewArrivals(ctx, newArrivalsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list new arrivals")
	}
	return rows, nil
}

// Similar returns up to four products sharing gender and category.
func (s *service) Similar(ctx context.Context, id uuid.UUID) ([]models.Product, error) {
	ref, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Similar(ctx, ref, similarLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list similar products")
	}
	return rows, nil
}

// ListAdmin pages through the full catalog.
func (s *service) ListAdmin(ctx context.Context, page pagination.Params) ([]models.Product, int64, error) {
	norm := page.Normalize()
	rows, total, err := s.repo.ListAdmin(ctx, norm.Limit, page.Offset())
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, total, nil
}

// Create inserts a new catalog entry.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Price.IsNegative() || input.Price.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.DiscountPrice != nil && input.DiscountPrice.GreaterThanOrEqual(input.Price) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price must be below price")
	}

	gender := enums.GenderUnisex
	if input.Gender != "" {
		parsed, err := enums.ParseGender(input.Gender)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		gender = parsed
	}

	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}

	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		SKU:           strings.TrimSpace(input.SKU),
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		CountInStock:  input.CountInStock,
		Category:      strings.TrimSpace(input.Category),
		Brand:         input.Brand,
		Material:      input.Material,
		Gender:        gender,
		Sizes:         input.Sizes,
		Colors:        input.Colors,
		Collections:   input.Collections,
		Tags:          input.Tags,
		Images:        input.Images,
		IsFeatured:    input.IsFeatured,
		IsPublished:   published,
		CreatedByID:   input.CreatedByID,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

// Update applies partial edits to an existing product.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() || input.Price.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		product.Price = *input.Price
	}
	if input.ClearDiscount {
		product.DiscountPrice = nil
	} else if input.DiscountPrice != nil {
		if input.DiscountPrice.GreaterThanOrEqual(product.Price) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price must be below price")
		}
		product.DiscountPrice = input.DiscountPrice
	}
	if input.CountInStock != nil {
		if *input.CountInStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.CountInStock = *input.CountInStock
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Brand != nil {
		product.Brand = input.Brand
	}
	if input.Material != nil {
		product.Material = input.Material
	}
	if input.Gender != nil {
		parsed, err := enums.ParseGender(*input.Gender)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		product.Gender = parsed
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}
	if input.Colors != nil {
		product.Colors = input.Colors
	}
	if input.Collections != nil {
		product.Collections = input.Collections
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsPublished != nil {
		product.IsPublished = *input.IsPublished
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}
	if input.NumReviews != nil {
		product.NumReviews = *input.NumReviews
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return saved, nil
}

// Delete removes a product from the catalog.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
