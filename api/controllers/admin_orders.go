package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakfield-supplies/storefront-backend/api/responses"
	"github.com/oakfield-supplies/storefront-backend/api/validators"
	"github.com/oakfield-supplies/storefront-backend/internal/orders"
	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
)

// AdminOrdersList serves GET /admin/orders across all customers.
func AdminOrdersList(svc orders.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListAll(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderPageResponse(page, pricing.CurrencySymbol))
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderUpdateStatus serves PATCH /admin/orders/{orderID}/status.
func AdminOrderUpdateStatus(svc orders.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(*updated, pricing.CurrencySymbol))
	}
}
