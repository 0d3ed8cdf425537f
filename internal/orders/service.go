package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/pagination"
)

// StatusDelivered is the only status value with side effects: it marks the
// order both delivered and paid.
const StatusDelivered = "Delivered"

// lastOrdersLimit is how many recent orders the dashboard summary embeds.
const lastOrdersLimit = 3

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

type productCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Summary aggregates the back-office dashboard numbers.
type Summary struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	LastOrders    []models.Order  `json:"-"`
}

// Service exposes order reads for customers and management for admins.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListAll(ctx context.Context, page pagination.Params) ([]models.Order, int64, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
	Revenue(ctx context.Context) (decimal.Decimal, int64, error)
	Summarize(ctx context.Context) (*Summary, error)
}

type service struct {
	repo     OrderRepository
	users    userCounter
	products productCounter
	now      func() time.Time
}

// NewService builds the order service backed by the provided stack.
func NewService(repo OrderRepository, users userCounter, products productCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user counter required")
	}
	if products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	return &service{repo: repo, users: users, products: products, now: time.Now}, nil
}

// ListMine returns the caller's orders, newest first.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// GetMine returns one of the caller's orders, or not-found.
func (s *service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// ListAll pages through every order for the back office.
func (s *service) ListAll(ctx context.Context, page pagination.Params) ([]models.Order, int64, error) {
	norm := page.Normalize()
	rows, total, err := s.repo.ListAll(ctx, norm.Limit, page.Offset())
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, total, nil
}

// Get loads any order by id for the back office.
func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.load(ctx, orderID)
}

// UpdateStatus sets the free-text fulfilment status. Marking an order
// delivered also settles it.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status is required")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if status == StatusDelivered {
		now := s.now()
		order.IsDelivered = true
		if order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
		order.IsPaid = true
		if order.PaidAt == nil {
			order.PaidAt = &now
		}
	}

	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return order, nil
}

// Delete removes an order entirely.
func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.load(ctx, orderID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// Revenue totals paid orders and reports how many were counted.
func (s *service) Revenue(ctx context.Context) (decimal.Decimal, int64, error) {
	total, paidCount, err := s.repo.SumRevenue(ctx)
	if err != nil {
		return decimal.Zero, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	return total, paidCount, nil
}

// Summarize aggregates the dashboard counters.
func (s *service) Summarize(ctx context.Context) (*Summary, error) {
	orderCount, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	revenue, _, err := s.repo.SumRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	lastOrders, _, err := s.repo.ListAll(ctx, lastOrdersLimit, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders")
	}

	return &Summary{
		TotalOrders:   orderCount,
		TotalRevenue:  revenue,
		TotalUsers:    userCount,
		TotalProducts: productCount,
		LastOrders:    lastOrders,
	}, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
