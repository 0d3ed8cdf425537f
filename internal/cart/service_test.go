package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
	pkgerrors "atelier-backend/pkg/errors"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type memRepo struct {
	carts map[uuid.UUID]*models.Cart
}

func newMemRepo() *memRepo {
	return &memRepo{carts: map[uuid.UUID]*models.Cart{}}
}

func (r *memRepo) WithTx(*gorm.DB) CartRepository { return r }

func (r *memRepo) Create(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.ID = uuid.New()
	clone := *cart
	r.carts[cart.ID] = &clone
	return cart, nil
}

func (r *memRepo) Save(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	existing, ok := r.carts[cart.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	items := existing.Items
	clone := *cart
	clone.Items = items
	r.carts[cart.ID] = &clone
	return cart, nil
}

func (r *memRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Cart, error) {
	if cart, ok := r.carts[id]; ok {
		clone := *cart
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	for _, cart := range r.carts {
		if cart.UserID != nil && *cart.UserID == userID {
			clone := *cart
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) FindByGuestID(_ context.Context, guestID string) (*models.Cart, error) {
	for _, cart := range r.carts {
		if cart.GuestID != nil && *cart.GuestID == guestID {
			clone := *cart
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) ReplaceItems(_ context.Context, cartID uuid.UUID, items []models.CartItem) error {
	cart, ok := r.carts[cartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	copied := make([]models.CartItem, len(items))
	copy(copied, items)
	for i := range copied {
		copied[i].CartID = cartID
	}
	cart.Items = copied
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.carts, id)
	return nil
}

func testProduct(price string) *models.Product {
	return &models.Product{
		ID:    uuid.New(),
		Name:  "Linen Shirt",
		Price: decimal.RequireFromString(price),
	}
}

func newTestService(t *testing.T, products ...*models.Product) (Service, *memRepo) {
	t.Helper()
	byID := map[uuid.UUID]*models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	repo := newMemRepo()
	svc, err := NewService(repo, stubTx{}, &stubProducts{byID: byID})
	require.NoError(t, err)
	return svc, repo
}

func TestAddItem_MintsGuestCart(t *testing.T) {
	product := testProduct("40.00")
	svc, _ := newTestService(t, product)

	cart, err := svc.AddItem(context.Background(), Identity{}, AddItemInput{
		ProductID: product.ID,
		Size:      "M",
		Color:     "White",
		Quantity:  2,
	})
	require.NoError(t, err)
	require.NotNil(t, cart.GuestID)
	require.True(t, strings.HasPrefix(*cart.GuestID, "guest_"))
	require.Len(t, cart.Items, 1)
	require.Equal(t, 2, cart.Items[0].Quantity)
	require.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("80.00")))
}

func TestAddItem_SumsMatchingLine(t *testing.T) {
	product := testProduct("10.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, Identity{GuestID: "guest_1"}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	second, err := svc.AddItem(ctx, Identity{GuestID: "guest_1"}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 3,
	})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Equal(t, 4, second.Items[0].Quantity)
	require.True(t, second.TotalPrice.Equal(decimal.RequireFromString("40.00")))
}

func TestAddItem_DifferentVariantIsNewLine(t *testing.T) {
	product := testProduct("10.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, Identity{GuestID: "guest_2"}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, Identity{GuestID: "guest_2"}, AddItemInput{
		ProductID: product.ID, Size: "L", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
}

func TestAddItem_SnapshotsDiscountPrice(t *testing.T) {
	discount := decimal.RequireFromString("25.00")
	product := testProduct("40.00")
	product.DiscountPrice = &discount
	svc, _ := newTestService(t, product)

	cart, err := svc.AddItem(context.Background(), Identity{GuestID: "guest_3"}, AddItemInput{
		ProductID: product.ID, Size: "S", Color: "Navy", Quantity: 2,
	})
	require.NoError(t, err)
	require.True(t, cart.Items[0].Price.Equal(discount))
	require.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("50.00")))
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), Identity{GuestID: "guest_4"}, AddItemInput{
		ProductID: uuid.New(), Size: "M", Color: "Black", Quantity: 1,
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateItem_ReplacesQuantity(t *testing.T) {
	product := testProduct("15.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, Identity{GuestID: "guest_5"}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 5,
	})
	require.NoError(t, err)

	cart, err := svc.UpdateItem(ctx, Identity{GuestID: "guest_5"}, UpdateItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 2,
	})
	require.NoError(t, err)
	require.Equal(t, 2, cart.Items[0].Quantity)
	require.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("30.00")))
}

func TestUpdateItem_ZeroQuantityRemovesLine(t *testing.T) {
	product := testProduct("15.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, Identity{GuestID: "guest_6"}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 5,
	})
	require.NoError(t, err)

	cart, err := svc.UpdateItem(ctx, Identity{GuestID: "guest_6"}, UpdateItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 0,
	})
	require.NoError(t, err)
	require.Empty(t, cart.Items)
	require.True(t, cart.TotalPrice.IsZero())
}

func TestUpdateItem_MissingLine(t *testing.T) {
	product := testProduct("15.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, Identity{GuestID: "guest_7"}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, Identity{GuestID: "guest_7"}, UpdateItemInput{
		ProductID: uuid.New(), Size: "M", Color: "Black", Quantity: 2,
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetCart_DoesNotCreate(t *testing.T) {
	product := testProduct("10.00")
	svc, repo := newTestService(t, product)

	_, err := svc.GetCart(context.Background(), Identity{GuestID: "guest_404"})
	requireCode(t, err, pkgerrors.CodeNotFound)
	require.Empty(t, repo.carts)
}

func TestGetCart_UserWinsOverGuest(t *testing.T) {
	product := testProduct("10.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, Identity{UserID: &userID}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, Identity{GuestID: "guest_8"}, AddItemInput{
		ProductID: product.ID, Size: "L", Color: "White", Quantity: 1,
	})
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, Identity{UserID: &userID, GuestID: "guest_8"})
	require.NoError(t, err)
	require.NotNil(t, cart.UserID)
	require.Equal(t, userID, *cart.UserID)
}

func TestMerge_UnionsAndDeletesGuestCart(t *testing.T) {
	shirt := testProduct("10.00")
	pants := testProduct("20.00")
	svc, repo := newTestService(t, shirt, pants)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, Identity{UserID: &userID}, AddItemInput{
		ProductID: shirt.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, Identity{GuestID: "guest_9"}, AddItemInput{
		ProductID: shirt.ID, Size: "M", Color: "Black", Quantity: 2,
	})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, Identity{GuestID: "guest_9"}, AddItemInput{
		ProductID: pants.ID, Size: "32", Color: "Olive", Quantity: 1,
	})
	require.NoError(t, err)

	merged, err := svc.Merge(ctx, "guest_9", userID)
	require.NoError(t, err)
	require.Len(t, merged.Items, 2)
	for _, item := range merged.Items {
		if item.ProductID == shirt.ID {
			require.Equal(t, 3, item.Quantity)
		}
	}
	require.True(t, merged.TotalPrice.Equal(decimal.RequireFromString("50.00")))

	_, err = repo.FindByGuestID(ctx, "guest_9")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMerge_RepointsWhenUserHasNoCart(t *testing.T) {
	product := testProduct("10.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, Identity{GuestID: "guest_10"}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)

	merged, err := svc.Merge(ctx, "guest_10", userID)
	require.NoError(t, err)
	require.NotNil(t, merged.UserID)
	require.Equal(t, userID, *merged.UserID)
	require.Nil(t, merged.GuestID)
	require.Len(t, merged.Items, 1)
}

func TestMerge_EmptyGuestCartRejected(t *testing.T) {
	product := testProduct("10.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	cart, err := svc.AddItem(ctx, Identity{GuestID: "guest_11"}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)
	_, err = svc.UpdateItem(ctx, Identity{GuestID: "guest_11"}, UpdateItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 0,
	})
	require.NoError(t, err)
	_ = cart

	_, err = svc.Merge(ctx, "guest_11", userID)
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestMerge_MissingGuestCartFallsBackToUserCart(t *testing.T) {
	product := testProduct("10.00")
	svc, _ := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, Identity{UserID: &userID}, AddItemInput{
		ProductID: product.ID, Size: "M", Color: "Black", Quantity: 1,
	})
	require.NoError(t, err)

	merged, err := svc.Merge(ctx, "guest_missing", userID)
	require.NoError(t, err)
	require.NotNil(t, merged.UserID)
	require.Equal(t, userID, *merged.UserID)
}

func TestMerge_NothingToMerge(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Merge(context.Background(), "guest_missing", uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a coded error, got %v", err)
	require.Equal(t, code, typed.Code())
}
