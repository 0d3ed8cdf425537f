package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"atelier-backend/api/middleware"
	"atelier-backend/api/responses"
	"atelier-backend/api/validators"
	cartsvc "atelier-backend/internal/cart"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/logger"
)

type cartAddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size" validate:"required"`
	Color     string    `json:"color" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	GuestID   string    `json:"guest_id"`
}

type cartUpdateItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size" validate:"required"`
	Color     string    `json:"color" validate:"required"`
	Quantity  int       `json:"quantity"`
	GuestID   string    `json:"guest_id"`
}

type cartRemoveItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size" validate:"required"`
	Color     string    `json:"color" validate:"required"`
	GuestID   string    `json:"guest_id"`
}

type cartMergeRequest struct {
	GuestID string `json:"guest_id" validate:"required"`
}

// cartIdentity combines the optionally-authenticated user with the guest id
// the client carries. A signed-in user always wins over the guest cookie.
func cartIdentity(r *http.Request, guestID string) cartsvc.Identity {
	identity := cartsvc.Identity{GuestID: guestID}
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			identity.UserID = &id
		}
	}
	return identity
}

// CartGet serves the current cart for a user or guest. It never creates one;
// a cart only comes into existence on the first add.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		identity := cartIdentity(r, validators.ParseQueryString(r, "guest_id"))

		record, err := svc.GetCart(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCart(record))
	}
}

// CartAddItem adds a line or deepens an existing one.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartAddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), cartIdentity(r, payload.GuestID), cartsvc.AddItemInput{
			ProductID: payload.ProductID,
			Size:      payload.Size,
			Color:     payload.Color,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCart(record))
	}
}

// CartUpdateItem replaces a line's quantity; zero removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartUpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateItem(r.Context(), cartIdentity(r, payload.GuestID), cartsvc.UpdateItemInput{
			ProductID: payload.ProductID,
			Size:      payload.Size,
			Color:     payload.Color,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCart(record))
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartRemoveItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveItem(r.Context(), cartIdentity(r, payload.GuestID), cartsvc.RemoveItemInput{
			ProductID: payload.ProductID,
			Size:      payload.Size,
			Color:     payload.Color,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCart(record))
	}
}

// CartMerge folds a guest cart into the authenticated user's cart.
func CartMerge(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartMergeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Merge(r.Context(), payload.GuestID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCart(record))
	}
}
