package controllers

import (
	"net/http"

	"atelier-backend/api/responses"
	"atelier-backend/api/validators"
	checkoutsvc "atelier-backend/internal/checkout"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/logger"
	"atelier-backend/pkg/types"
)

type checkoutCreateRequest struct {
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required"`
}

type checkoutPayRequest struct {
	PaymentStatus  string        `json:"payment_status" validate:"required"`
	PaymentDetails types.JSONMap `json:"payment_details"`
}

// CheckoutCreate snapshots the user's cart into a new checkout.
func CheckoutCreate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), userID, checkoutsvc.CreateInput{
			ShippingAddress: payload.ShippingAddress,
			PaymentMethod:   payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckout(record))
	}
}

// CheckoutGet serves one of the user's own checkouts.
func CheckoutGet(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkoutID, err := pathUUID(r, "checkoutId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), userID, checkoutID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckout(record))
	}
}

// CheckoutPay records the payment outcome reported by the client.
func CheckoutPay(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkoutID, err := pathUUID(r, "checkoutId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutPayRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.MarkPaid(r.Context(), userID, checkoutID, checkoutsvc.PayInput{
			PaymentStatus:  payload.PaymentStatus,
			PaymentDetails: payload.PaymentDetails,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckout(record))
	}
}

// CheckoutFinalize converts a paid checkout into an order exactly once.
func CheckoutFinalize(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkoutID, err := pathUUID(r, "checkoutId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Finalize(r.Context(), userID, checkoutID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrder(record))
	}
}
