package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/pagination"
)

type memOrders struct {
	byID map[uuid.UUID]*models.Order
}

func newMemOrders() *memOrders {
	return &memOrders{byID: map[uuid.UUID]*models.Order{}}
}

func (r *memOrders) WithTx(*gorm.DB) OrderRepository { return r }

func (r *memOrders) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	clone := *order
	r.byID[order.ID] = &clone
	return order, nil
}

func (r *memOrders) Save(_ context.Context, order *models.Order) (*models.Order, error) {
	clone := *order
	r.byID[order.ID] = &clone
	return order, nil
}

func (r *memOrders) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := r.byID[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrders) FindByIDForUser(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	if o, ok := r.byID[id]; ok && o.UserID == userID {
		clone := *o
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	for _, o := range r.byID {
		if o.UserID == userID {
			rows = append(rows, *o)
		}
	}
	return rows, nil
}

func (r *memOrders) ListAll(_ context.Context, limit, offset int) ([]models.Order, int64, error) {
	var rows []models.Order
	for _, o := range r.byID {
		rows = append(rows, *o)
	}
	total := int64(len(rows))
	if offset >= len(rows) {
		return nil, total, nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, total, nil
}

func (r *memOrders) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *memOrders) SumRevenue(_ context.Context) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	var paid int64
	for _, o := range r.byID {
		if !o.IsPaid {
			continue
		}
		total = total.Add(o.TotalPrice)
		paid++
	}
	return total, paid, nil
}

func (r *memOrders) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

type fixedCount int64

func (c fixedCount) Count(context.Context) (int64, error) { return int64(c), nil }

func newTestService(t *testing.T) (Service, *memOrders) {
	t.Helper()
	repo := newMemOrders()
	svc, err := NewService(repo, fixedCount(7), fixedCount(21))
	require.NoError(t, err)
	return svc, repo
}

func seedOrder(t *testing.T, repo *memOrders, userID uuid.UUID, total string) *models.Order {
	t.Helper()
	order, err := repo.Create(context.Background(), &models.Order{
		UserID:     userID,
		CheckoutID: uuid.New(),
		TotalPrice: decimal.RequireFromString(total),
		Status:     "Pending",
	})
	require.NoError(t, err)
	return order
}

func seedPaidOrder(t *testing.T, repo *memOrders, userID uuid.UUID, total string) *models.Order {
	t.Helper()
	order, err := repo.Create(context.Background(), &models.Order{
		UserID:     userID,
		CheckoutID: uuid.New(),
		TotalPrice: decimal.RequireFromString(total),
		Status:     "Pending",
		IsPaid:     true,
	})
	require.NoError(t, err)
	return order
}

func TestGetMine_OwnershipEnforced(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()
	order := seedOrder(t, repo, owner, "50.00")

	found, err := svc.GetMine(ctx, owner, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, found.ID)

	_, err = svc.GetMine(ctx, uuid.New(), order.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateStatus_DeliveredSettlesOrder(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, repo, uuid.New(), "50.00")

	updated, err := svc.UpdateStatus(ctx, order.ID, StatusDelivered)
	require.NoError(t, err)
	require.True(t, updated.IsDelivered)
	require.NotNil(t, updated.DeliveredAt)
	require.True(t, updated.IsPaid)
	require.NotNil(t, updated.PaidAt)
	require.Equal(t, StatusDelivered, updated.Status)
}

func TestUpdateStatus_FreeTextKeepsFlags(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, repo, uuid.New(), "50.00")

	updated, err := svc.UpdateStatus(ctx, order.ID, "Out for embroidery")
	require.NoError(t, err)
	require.Equal(t, "Out for embroidery", updated.Status)
	require.False(t, updated.IsDelivered)
	require.False(t, updated.IsPaid)
}

func TestUpdateStatus_EmptyRejected(t *testing.T) {
	svc, repo := newTestService(t)
	order := seedOrder(t, repo, uuid.New(), "50.00")

	_, err := svc.UpdateStatus(context.Background(), order.ID, "   ")
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, repo, uuid.New(), "50.00")

	require.NoError(t, svc.Delete(ctx, order.ID))

	err := svc.Delete(ctx, order.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestRevenue_CountsOnlyPaidOrders(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seedPaidOrder(t, repo, uuid.New(), "50.00")
	seedPaidOrder(t, repo, uuid.New(), "25.50")
	seedOrder(t, repo, uuid.New(), "999.00")

	revenue, paidCount, err := svc.Revenue(ctx)
	require.NoError(t, err)
	require.True(t, revenue.Equal(decimal.RequireFromString("75.50")), "unpaid orders must not count, got %s", revenue)
	require.Equal(t, int64(2), paidCount)
}

func TestSummarize(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seedPaidOrder(t, repo, uuid.New(), "50.00")
	seedPaidOrder(t, repo, uuid.New(), "25.50")
	seedOrder(t, repo, uuid.New(), "999.00")

	summary, err := svc.Summarize(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), summary.TotalOrders)
	require.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("75.50")))
	require.Equal(t, int64(7), summary.TotalUsers)
	require.Equal(t, int64(21), summary.TotalProducts)
	require.Len(t, summary.LastOrders, 3)
}

func TestListAll_Paginates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seedOrder(t, repo, uuid.New(), "10.00")

	rows, total, err := svc.ListAll(ctx, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a coded error, got %v", err)
	require.Equal(t, code, typed.Code())
}
