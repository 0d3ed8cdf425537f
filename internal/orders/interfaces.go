package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
)

// OrderRepository abstracts order persistence so the service can be
// exercised against stubs. Checkout finalization also creates orders
// through this surface inside its transaction.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SumRevenue(ctx context.Context) (decimal.Decimal, int64, error)
	Count(ctx context.Context) (int64, error)
}
