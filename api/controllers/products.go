package controllers

import (
	"net/http"

	"atelier-backend/api/responses"
	"atelier-backend/api/validators"
	productsvc "atelier-backend/internal/products"
	"atelier-backend/pkg/enums"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/logger"
	"atelier-backend/pkg/pagination"
)

// ProductList serves the filtered, sorted storefront catalog.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filters, err := toListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProducts(records))
	}
}

// ProductGet serves a single listing.
func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProduct(record))
	}
}

// ProductBestSeller serves the highest-rated published listing.
func ProductBestSeller(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		record, err := svc.BestSeller(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProduct(record))
	}
}

// ProductNewArrivals serves the most recently published listings.
func ProductNewArrivals(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		records, err := svc.NewArrivals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProducts(records))
	}
}

// ProductSimilar serves listings sharing gender and category with the target.
func ProductSimilar(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.Similar(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProducts(records))
	}
}

func toListFilters(r *http.Request) (productsvc.ListFilters, error) {
	sortBy := enums.SortMode(validators.ParseQueryString(r, "sort_by"))
	if !sortBy.IsValid() {
		return productsvc.ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort_by")
	}

	minPrice, err := validators.ParseQueryFloat(r, "min_price")
	if err != nil {
		return productsvc.ListFilters{}, err
	}
	maxPrice, err := validators.ParseQueryFloat(r, "max_price")
	if err != nil {
		return productsvc.ListFilters{}, err
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return productsvc.ListFilters{}, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
	if err != nil {
		return productsvc.ListFilters{}, err
	}

	return productsvc.ListFilters{
		Category:   validators.ParseQueryString(r, "category"),
		Gender:     validators.ParseQueryString(r, "gender"),
		Brand:      validators.ParseQueryString(r, "brand"),
		Materials:  validators.ParseQueryList(r, "material"),
		Sizes:      validators.ParseQueryList(r, "size"),
		Colors:     validators.ParseQueryList(r, "color"),
		Collection: validators.ParseQueryString(r, "collection"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Search:     validators.ParseQueryString(r, "search"),
		SortBy:     sortBy,
		Limit:      limit,
		Offset:     offset,
	}, nil
}
