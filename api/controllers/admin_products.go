package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"atelier-backend/api/controllers/dto"
	"atelier-backend/api/responses"
	"atelier-backend/api/validators"
	productsvc "atelier-backend/internal/products"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/logger"
	"atelier-backend/pkg/types"
)

type adminCreateProductRequest struct {
	Name          string              `json:"name" validate:"required"`
	Description   string              `json:"description" validate:"required"`
	SKU           string              `json:"sku" validate:"required"`
	Price         decimal.Decimal     `json:"price" validate:"required"`
	DiscountPrice *decimal.Decimal    `json:"discount_price"`
	CountInStock  int                 `json:"count_in_stock"`
	Category      string              `json:"category" validate:"required"`
	Brand         *string             `json:"brand"`
	Material      *string             `json:"material"`
	Gender        string              `json:"gender" validate:"required"`
	Sizes         []string            `json:"sizes"`
	Colors        []string            `json:"colors"`
	Collections   []string            `json:"collections"`
	Tags          []string            `json:"tags"`
	Images        types.ProductImages `json:"images"`
	IsFeatured    bool                `json:"is_featured"`
	IsPublished   *bool               `json:"is_published"`
}

type adminUpdateProductRequest struct {
	Name          *string             `json:"name"`
	Description   *string             `json:"description"`
	Price         *decimal.Decimal    `json:"price"`
	DiscountPrice *decimal.Decimal    `json:"discount_price"`
	ClearDiscount bool                `json:"clear_discount"`
	CountInStock  *int                `json:"count_in_stock"`
	Category      *string             `json:"category"`
	Brand         *string             `json:"brand"`
	Material      *string             `json:"material"`
	Gender        *string             `json:"gender"`
	Sizes         []string            `json:"sizes"`
	Colors        []string            `json:"colors"`
	Collections   []string            `json:"collections"`
	Tags          []string            `json:"tags"`
	Images        types.ProductImages `json:"images"`
	IsFeatured    *bool               `json:"is_featured"`
	IsPublished   *bool               `json:"is_published"`
}

// AdminProductList pages through the full catalog, drafts included.
func AdminProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, total, err := svc.ListAdmin(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		norm := page.Normalize()
		responses.WriteSuccess(w, dto.Page[dto.Product]{
			Items: newProducts(records),
			Total: total,
			Page:  norm.Page,
			Limit: norm.Limit,
		})
	}
}

// AdminProductCreate adds a catalog listing.
func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminCreateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), productsvc.CreateInput{
			Name:          payload.Name,
			Description:   payload.Description,
			SKU:           payload.SKU,
			Price:         payload.Price,
			DiscountPrice: payload.DiscountPrice,
			CountInStock:  payload.CountInStock,
			Category:      payload.Category,
			Brand:         payload.Brand,
			Material:      payload.Material,
			Gender:        payload.Gender,
			Sizes:         payload.Sizes,
			Colors:        payload.Colors,
			Collections:   payload.Collections,
			Tags:          payload.Tags,
			Images:        payload.Images,
			IsFeatured:    payload.IsFeatured,
			IsPublished:   payload.IsPublished,
			CreatedByID:   &actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProduct(record))
	}
}

// AdminProductUpdate applies partial edits to a listing.
func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload adminUpdateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Update(r.Context(), id, productsvc.UpdateInput{
			Name:          payload.Name,
			Description:   payload.Description,
			Price:         payload.Price,
			DiscountPrice: payload.DiscountPrice,
			ClearDiscount: payload.ClearDiscount,
			CountInStock:  payload.CountInStock,
			Category:      payload.Category,
			Brand:         payload.Brand,
			Material:      payload.Material,
			Gender:        payload.Gender,
			Sizes:         payload.Sizes,
			Colors:        payload.Colors,
			Collections:   payload.Collections,
			Tags:          payload.Tags,
			Images:        payload.Images,
			IsFeatured:    payload.IsFeatured,
			IsPublished:   payload.IsPublished,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProduct(record))
	}
}

// AdminProductDelete removes a listing.
func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
