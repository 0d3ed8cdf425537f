package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"atelier-backend/pkg/db/models"
)

// Repository exposes persistence operations for checkouts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a checkout repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CheckoutRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a checkout with its line snapshots.
func (r *Repository) Create(ctx context.Context, checkout *models.Checkout) (*models.Checkout, error) {
	if err := r.db.WithContext(ctx).Create(checkout).Error; err != nil {
		return nil, err
	}
	return checkout, nil
}

// Save persists the checkout header. Lines are immutable after creation.
func (r *Repository) Save(ctx context.Context, checkout *models.Checkout) (*models.Checkout, error) {
	err := r.db.WithContext(ctx).
		Omit("Items").
		Save(checkout).Error
	if err != nil {
		return nil, err
	}
	return checkout, nil
}

// FindByIDForUser loads a checkout restricted to its owner.
func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&checkout).Error
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// FindByIDForUserLocked loads the checkout with a row lock so concurrent
// finalize calls serialize.
func (r *Repository) FindByIDForUserLocked(ctx context.Context, id, userID uuid.UUID) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&checkout).Error
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}
