package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
)

// CheckoutRepository abstracts checkout persistence so the service can be
// exercised against stubs.
type CheckoutRepository interface {
	WithTx(tx *gorm.DB) CheckoutRepository
	Create(ctx context.Context, checkout *models.Checkout) (*models.Checkout, error)
	Save(ctx context.Context, checkout *models.Checkout) (*models.Checkout, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Checkout, error)
	// FindByIDForUserLocked takes a row lock; only valid inside a transaction.
	FindByIDForUserLocked(ctx context.Context, id, userID uuid.UUID) (*models.Checkout, error)
}
