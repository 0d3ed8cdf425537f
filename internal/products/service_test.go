package products

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"atelier-backend/pkg/db/models"
	"atelier-backend/pkg/enums"
	pkgerrors "atelier-backend/pkg/errors"
)

type memCatalog struct {
	byID map[uuid.UUID]*models.Product
	skus map[string]bool
}

func newMemCatalog() *memCatalog {
	return &memCatalog{byID: map[uuid.UUID]*models.Product{}, skus: map[string]bool{}}
}

func (r *memCatalog) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	if r.skus[product.SKU] {
		return nil, gorm.ErrDuplicatedKey
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	clone := *product
	r.byID[product.ID] = &clone
	r.skus[product.SKU] = true
	return product, nil
}

func (r *memCatalog) Save(_ context.Context, product *models.Product) (*models.Product, error) {
	clone := *product
	r.byID[product.ID] = &clone
	return product, nil
}

func (r *memCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := r.byID[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCatalog) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *memCatalog) List(_ context.Context, filters ListFilters) ([]models.Product, error) {
	var rows []models.Product
	for _, p := range r.byID {
		if p.IsPublished {
			rows = append(rows, *p)
		}
	}
	return rows, nil
}

func (r *memCatalog) ListAdmin(_ context.Context, limit, offset int) ([]models.Product, int64, error) {
	var rows []models.Product
	for _, p := range r.byID {
		rows = append(rows, *p)
	}
	return rows, int64(len(r.byID)), nil
}

func (r *memCatalog) BestSeller(_ context.Context) (*models.Product, error) {
	var best *models.Product
	for _, p := range r.byID {
		if !p.IsPublished {
			continue
		}
		if best == nil || p.Rating > best.Rating {
			best = p
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *best
	return &clone, nil
}

func (r *memCatalog) NewArrivals(_ context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	for _, p := range r.byID {
		if p.IsPublished {
			rows = append(rows, *p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *memCatalog) Similar(_ context.Context, ref *models.Product, limit int) ([]models.Product, error) {
	var rows []models.Product
	for _, p := range r.byID {
		if p.ID == ref.ID || !p.IsPublished {
			continue
		}
		if p.Gender == ref.Gender && p.Category == ref.Category {
			rows = append(rows, *p)
		}
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func newTestService(t *testing.T) (Service, *memCatalog) {
	t.Helper()
	repo := newMemCatalog()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func validCreateInput(sku string) CreateInput {
	return CreateInput{
		Name:        "Wool Coat",
		Description: "Heavy winter coat",
		SKU:         sku,
		Price:       decimal.RequireFromString("120.00"),
		Category:    "Outerwear",
		Gender:      "Men",
		Sizes:       []string{"M", "L"},
		Colors:      []string{"Charcoal"},
	}
}

func TestCreate_DefaultsToPublished(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), validCreateInput("COAT-1"))
	require.NoError(t, err)
	require.True(t, created.IsPublished)
	require.Equal(t, enums.GenderMen, created.Gender)
}

func TestCreate_DuplicateSKU(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreateInput("COAT-1"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validCreateInput("COAT-1"))
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestCreate_RejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validCreateInput("COAT-2")
	input.Price = decimal.Zero
	_, err := svc.Create(ctx, input)
	requireCode(t, err, pkgerrors.CodeValidation)

	input = validCreateInput("COAT-3")
	discount := decimal.RequireFromString("150.00")
	input.DiscountPrice = &discount
	_, err = svc.Create(ctx, input)
	requireCode(t, err, pkgerrors.CodeValidation)

	input = validCreateInput("COAT-4")
	input.Gender = "Kids"
	_, err = svc.Create(ctx, input)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestList_RejectsInvalidFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, ListFilters{SortBy: enums.SortMode("alphabetical")})
	requireCode(t, err, pkgerrors.CodeValidation)

	min, max := 50.0, 10.0
	_, err = svc.List(ctx, ListFilters{MinPrice: &min, MaxPrice: &max})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdate_PartialEdit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput("COAT-1"))
	require.NoError(t, err)

	stock := 12
	updated, err := svc.Update(ctx, created.ID, UpdateInput{CountInStock: &stock})
	require.NoError(t, err)
	require.Equal(t, 12, updated.CountInStock)
	require.Equal(t, created.Name, updated.Name)
}

func TestUpdate_ClearDiscount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validCreateInput("COAT-1")
	discount := decimal.RequireFromString("90.00")
	input.DiscountPrice = &discount
	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, created.DiscountPrice)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{ClearDiscount: true})
	require.NoError(t, err)
	require.Nil(t, updated.DiscountPrice)
}

func TestUpdate_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: &name})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSimilar_ExcludesSelf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateInput("COAT-1"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreateInput("COAT-2"))
	require.NoError(t, err)

	similar, err := svc.Similar(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	require.NotEqual(t, first.ID, similar[0].ID)
}

func TestBestSeller_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.BestSeller(context.Background())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput("COAT-1"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, ok := repo.byID[created.ID]
	require.False(t, ok)

	err = svc.Delete(ctx, created.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a coded error, got %v", err)
	require.Equal(t, code, typed.Code())
}
