package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/google/uuid"

	productsvc "atelier-backend/internal/products"
	"atelier-backend/pkg/db/models"
	"atelier-backend/pkg/enums"
	"atelier-backend/pkg/pagination"
)

type stubProductService struct {
	lastFilters productsvc.ListFilters
}

func (s *stubProductService) List(_ context.Context, filters productsvc.ListFilters) ([]models.Product, error) {
	s.lastFilters = filters
	return []models.Product{{ID: uuid.New(), Name: "Linen Shirt"}}, nil
}

func (s *stubProductService) GetByID(context.Context, uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductService) BestSeller(context.Context) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductService) NewArrivals(context.Context) ([]models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductService) Similar(context.Context, uuid.UUID) ([]models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductService) ListAdmin(context.Context, pagination.Params) ([]models.Product, int64, error) {
	panic("unimplemented")
}

func (s *stubProductService) Create(context.Context, productsvc.CreateInput) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductService) Update(context.Context, uuid.UUID, productsvc.UpdateInput) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubProductService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func TestProductList_ForwardsFilters(t *testing.T) {
	stub := &stubProductService{}
	target := "/api/products?category=Shirts&gender=Men&size=M&min_price=20&max_price=80&sort_by=priceAsc&search=linen"

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	ProductList(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := stub.lastFilters
	if got.Category != "Shirts" || got.Gender != "Men" || got.Search != "linen" {
		t.Fatalf("unexpected filters forwarded: %+v", got)
	}
	if !reflect.DeepEqual(got.Sizes, []string{"M"}) {
		t.Fatalf("unexpected sizes forwarded: %v", got.Sizes)
	}
	if got.SortBy != enums.SortModePriceAsc {
		t.Fatalf("expected priceAsc sort, got %q", got.SortBy)
	}
	if got.MinPrice == nil || *got.MinPrice != 20 || got.MaxPrice == nil || *got.MaxPrice != 80 {
		t.Fatalf("unexpected price bounds: %+v %+v", got.MinPrice, got.MaxPrice)
	}
}

func TestProductList_SplitsListFilters(t *testing.T) {
	stub := &stubProductService{}
	target := "/api/products?size=S,M&color=White,%20Charcoal&material=Linen"

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	ProductList(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := stub.lastFilters
	if !reflect.DeepEqual(got.Sizes, []string{"S", "M"}) {
		t.Fatalf("expected sizes [S M], got %v", got.Sizes)
	}
	if !reflect.DeepEqual(got.Colors, []string{"White", "Charcoal"}) {
		t.Fatalf("expected colors [White Charcoal], got %v", got.Colors)
	}
	if !reflect.DeepEqual(got.Materials, []string{"Linen"}) {
		t.Fatalf("expected materials [Linen], got %v", got.Materials)
	}
}

func TestProductList_InvalidSort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?sort_by=cheapest", nil)
	rec := httptest.NewRecorder()

	ProductList(&stubProductService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort mode, got %d", rec.Code)
	}
}

func TestProductList_DefaultsPaging(t *testing.T) {
	stub := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	ProductList(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastFilters.Limit != pagination.DefaultLimit || stub.lastFilters.Offset != 0 {
		t.Fatalf("unexpected paging defaults: %+v", stub.lastFilters)
	}
}
