package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
)

// CartRepository abstracts cart persistence so the service can be exercised
// against stubs.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByGuestID(ctx context.Context, guestID string) (*models.Cart, error)
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}
