package controllers

import (
	"net/http"

	"atelier-backend/api/controllers/dto"
	"atelier-backend/api/responses"
	"atelier-backend/api/validators"
	subscribersvc "atelier-backend/internal/subscribers"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/logger"
)

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SubscriberSignup records a newsletter signup.
func SubscriberSignup(svc subscribersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscriber service unavailable"))
			return
		}

		var payload subscribeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Subscribe(r.Context(), payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSubscriber(record))
	}
}

// AdminSubscriberList pages through signups for the back office.
func AdminSubscriberList(svc subscribersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscriber service unavailable"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, total, err := svc.List(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		norm := page.Normalize()
		responses.WriteSuccess(w, dto.Page[dto.Subscriber]{
			Items: newSubscribers(records),
			Total: total,
			Page:  norm.Page,
			Limit: norm.Limit,
		})
	}
}
