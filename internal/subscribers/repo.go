package subscribers

import (
	"context"

	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
)

// Repository exposes persistence operations for newsletter signups.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a subscriber repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new subscriber.
func (r *Repository) Create(ctx context.Context, subscriber *models.Subscriber) (*models.Subscriber, error) {
	if err := r.db.WithContext(ctx).Create(subscriber).Error; err != nil {
		return nil, err
	}
	return subscriber, nil
}

// FindByEmail loads a subscriber by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&subscriber).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// List returns subscribers newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Subscriber, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Subscriber{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Subscriber
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
