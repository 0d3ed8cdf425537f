package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
	"atelier-backend/pkg/enums"
)

// Repository exposes persistence operations for the catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists the full product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes a product by primary key.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// List returns published products matching the storefront filters.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	q := r.applyFilters(r.db.WithContext(ctx).Where("is_published = ?", true), filters)

	switch filters.SortBy {
	case enums.SortModePriceAsc:
		q = q.Order("COALESCE(discount_price, price) ASC")
	case enums.SortModePriceDesc:
		q = q.Order("COALESCE(discount_price, price) DESC")
	case enums.SortModePopularity:
		q = q.Order("rating DESC")
	default:
		q = q.Order("created_at DESC")
	}

	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		q = q.Offset(filters.Offset)
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAdmin returns every product regardless of publication state.
func (r *Repository) ListAdmin(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Count returns the number of catalog entries.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// BestSeller returns the highest-rated published product.
func (r *Repository) BestSeller(ctx context.Context) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("rating DESC").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// NewArrivals returns the most recently added published products.
func (r *Repository) NewArrivals(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Similar returns published products sharing the gender and category of the
// reference product, excluding the product itself.
func (r *Repository) Similar(ctx context.Context, ref *models.Product, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Where("id <> ?", ref.ID).
		Where("gender = ?", ref.Gender).
		Where("category = ?", ref.Category).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) applyFilters(q *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Category != "" && !strings.EqualFold(filters.Category, "all") {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.Gender != "" {
		q = q.Where("gender = ?", filters.Gender)
	}
	if filters.Brand != "" {
		q = q.Where("brand = ?", filters.Brand)
	}
	if len(filters.Materials) > 0 {
		q = q.Where("material IN ?", filters.Materials)
	}
	if len(filters.Sizes) > 0 {
		q = q.Where("sizes && ?", pq.Array(filters.Sizes))
	}
	if len(filters.Colors) > 0 {
		q = q.Where("colors && ?", pq.Array(filters.Colors))
	}
	if filters.Collection != "" && !strings.EqualFold(filters.Collection, "all") {
		q = q.Where("? = ANY(collections)", filters.Collection)
	}
	if filters.MinPrice != nil {
		q = q.Where("COALESCE(discount_price, price) >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		q = q.Where("COALESCE(discount_price, price) <= ?", *filters.MaxPrice)
	}
	if term := strings.TrimSpace(filters.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("(name ILIKE ? OR description ILIKE ?)", like, like)
	}
	return q
}
