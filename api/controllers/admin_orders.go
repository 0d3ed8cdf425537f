package controllers

import (
	"net/http"

	"atelier-backend/api/controllers/dto"
	"atelier-backend/api/responses"
	"atelier-backend/api/validators"
	ordersvc "atelier-backend/internal/orders"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/logger"
)

type adminOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderList pages through all orders with owner summaries.
func AdminOrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, total, err := svc.ListAll(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		norm := page.Normalize()
		responses.WriteSuccess(w, dto.Page[dto.Order]{
			Items: newOrders(records),
			Total: total,
			Page:  norm.Page,
			Limit: norm.Limit,
		})
	}
}

// AdminOrderGet serves any order by id.
func AdminOrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrder(record))
	}
}

// AdminOrderUpdateStatus sets the fulfillment status. "Delivered" also
// settles the delivery and payment flags.
func AdminOrderUpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateStatus(r.Context(), orderID, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrder(record))
	}
}

// AdminOrderDelete removes an order record.
func AdminOrderDelete(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminOrderRevenue reports the summed total across paid orders.
func AdminOrderRevenue(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		revenue, paidCount, err := svc.Revenue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.Revenue{TotalRevenue: revenue, PaidOrdersCount: paidCount})
	}
}

// AdminDashboardSummary aggregates the back-office landing numbers.
func AdminDashboardSummary(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		summary, err := svc.Summarize(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.Summary{
			TotalOrders:   summary.TotalOrders,
			TotalRevenue:  summary.TotalRevenue,
			TotalUsers:    summary.TotalUsers,
			TotalProducts: summary.TotalProducts,
			LastOrders:    newOrders(summary.LastOrders),
		})
	}
}
