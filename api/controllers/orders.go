package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakfield-supplies/storefront-backend/api/middleware"
	"github.com/oakfield-supplies/storefront-backend/api/responses"
	"github.com/oakfield-supplies/storefront-backend/api/validators"
	"github.com/oakfield-supplies/storefront-backend/internal/orders"
	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
	"github.com/oakfield-supplies/storefront-backend/pkg/types"
)

type orderResponse struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	SubtotalGross  string     `json:"subtotal_gross"`
	SubtotalNet    string     `json:"subtotal_net"`
	DeliveryCharge string     `json:"delivery_charge"`
	VATAmount      string     `json:"vat_amount"`
	TotalGross     string     `json:"total_gross"`
	TotalNet       string     `json:"total_net"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	RefundedAt     *time.Time `json:"refunded_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type orderPageResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func newOrderResponse(order models.Order, symbol string) orderResponse {
	return orderResponse{
		ID:             order.ID.String(),
		Status:         order.Status.String(),
		PaymentStatus:  order.PaymentStatus.String(),
		SubtotalGross:  types.FormatMoney(symbol, order.SubtotalGross),
		SubtotalNet:    types.FormatMoney(symbol, order.SubtotalNet),
		DeliveryCharge: types.FormatMoney(symbol, order.DeliveryCharge),
		VATAmount:      types.FormatMoney(symbol, order.VATAmount),
		TotalGross:     types.FormatMoney(symbol, order.TotalGross),
		TotalNet:       types.FormatMoney(symbol, order.TotalNet),
		PaidAt:         order.PaidAt,
		ShippedAt:      order.ShippedAt,
		DeliveredAt:    order.DeliveredAt,
		RefundedAt:     order.RefundedAt,
		CreatedAt:      order.CreatedAt,
	}
}

// CheckoutCreate serves POST /checkout: snapshots the owner's cart into a
// pending order.
func CheckoutCreate(svc orders.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		owner := middleware.OwnerFromContext(r.Context())
		order, err := svc.CreateFromCart(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(*order, pricing.CurrencySymbol))
	}
}

// OrdersList serves GET /orders for the resolved owner.
func OrdersList(svc orders.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
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

		owner := middleware.OwnerFromContext(r.Context())
		page, err := svc.ListForOwner(r.Context(), owner, pagination.Params{
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

func newOrderPageResponse(page *orders.Page, symbol string) orderPageResponse {
	payload := orderPageResponse{
		Orders:     make([]orderResponse, 0, len(page.Orders)),
		NextCursor: page.NextCursor,
	}
	for _, order := range page.Orders {
		payload.Orders = append(payload.Orders, newOrderResponse(order, symbol))
	}
	return payload
}

// OrderGet serves GET /orders/{orderID}.
func OrderGet(svc orders.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
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

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(*order, pricing.CurrencySymbol))
	}
}
