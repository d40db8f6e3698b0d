package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakfield-supplies/storefront-backend/api/middleware"
	"github.com/oakfield-supplies/storefront-backend/api/responses"
	"github.com/oakfield-supplies/storefront-backend/api/validators"
	cartsvc "github.com/oakfield-supplies/storefront-backend/internal/cart"
	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/types"
)

type cartItemResponse struct {
	ID              string `json:"id"`
	InventoryID     string `json:"inventory_id"`
	ProductName     string `json:"product_name,omitempty"`
	Quantity        int    `json:"quantity"`
	FulfillmentType string `json:"fulfillment_type"`
	UnitPrice       string `json:"unit_price,omitempty"`
}

type cartResponse struct {
	ID                   string             `json:"id"`
	Status               string             `json:"status"`
	Items                []cartItemResponse `json:"items"`
	DeliveryTotalGross   string             `json:"delivery_total_gross"`
	DeliveryTotalNet     string             `json:"delivery_total_net"`
	CollectionTotalGross string             `json:"collection_total_gross"`
	CollectionTotalNet   string             `json:"collection_total_net"`
	SubtotalGross        string             `json:"subtotal_gross"`
	SubtotalNet          string             `json:"subtotal_net"`
	DeliveryCharge       string             `json:"delivery_charge"`
	VATAmount            string             `json:"vat_amount"`
	TotalGross           string             `json:"total_gross"`
	TotalNet             string             `json:"total_net"`
}

type cartMutationResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *cartResponse `json:"data,omitempty"`
}

func newCartResponse(cart *models.Cart, symbol string) *cartResponse {
	if cart == nil {
		return nil
	}
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		view := cartItemResponse{
			ID:              item.ID.String(),
			InventoryID:     item.InventoryID.String(),
			Quantity:        item.Quantity,
			FulfillmentType: item.FulfillmentType.String(),
		}
		if item.Inventory != nil && item.Inventory.Product != nil {
			view.ProductName = item.Inventory.Product.Name
			view.UnitPrice = types.FormatMoney(symbol, item.Inventory.Product.RetailPrice)
			if promo := item.Inventory.Product.PromotionalPrice; promo != nil && promo.IsPositive() {
				view.UnitPrice = types.FormatMoney(symbol, *promo)
			}
		}
		items = append(items, view)
	}
	return &cartResponse{
		ID:                   cart.ID.String(),
		Status:               cart.Status.String(),
		Items:                items,
		DeliveryTotalGross:   types.FormatMoney(symbol, cart.DeliveryTotalGross),
		DeliveryTotalNet:     types.FormatMoney(symbol, cart.DeliveryTotalNet),
		CollectionTotalGross: types.FormatMoney(symbol, cart.CollectionTotalGross),
		CollectionTotalNet:   types.FormatMoney(symbol, cart.CollectionTotalNet),
		SubtotalGross:        types.FormatMoney(symbol, cart.SubtotalGross),
		SubtotalNet:          types.FormatMoney(symbol, cart.SubtotalNet),
		DeliveryCharge:       types.FormatMoney(symbol, cart.DeliveryCharge),
		VATAmount:            types.FormatMoney(symbol, cart.VATAmount),
		TotalGross:           types.FormatMoney(symbol, cart.TotalGross),
		TotalNet:             types.FormatMoney(symbol, cart.TotalNet),
	}
}

// CartGet serves GET /cart for the resolved owner.
func CartGet(svc cartsvc.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner := middleware.OwnerFromContext(r.Context())
		cart, err := svc.GetCart(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(cart, pricing.CurrencySymbol))
	}
}

type addItemRequest struct {
	InventoryID     uuid.UUID `json:"inventory_id" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,min=1"`
	FulfillmentType string    `json:"fulfillment_type" validate:"required,oneof=FOR_DELIVERY FOR_COLLECTION"`
}

// CartAddItem serves POST /cart/items.
func CartAddItem(svc cartsvc.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fulfillment, err := enums.ParseFulfillmentType(payload.FulfillmentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment type"))
			return
		}

		owner := middleware.OwnerFromContext(r.Context())
		cart, err := svc.AddItem(r.Context(), owner, cartsvc.AddItemInput{
			InventoryID:     payload.InventoryID,
			Quantity:        payload.Quantity,
			FulfillmentType: fulfillment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartMutationResponse{
			Success: true,
			Message: "item added to cart",
			Data:    newCartResponse(cart, pricing.CurrencySymbol),
		})
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartUpdateItem serves PATCH /cart/items/{itemID}.
func CartUpdateItem(svc cartsvc.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner := middleware.OwnerFromContext(r.Context())
		cart, err := svc.UpdateItemQuantity(r.Context(), owner, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartMutationResponse{
			Success: true,
			Message: "quantity updated",
			Data:    newCartResponse(cart, pricing.CurrencySymbol),
		})
	}
}

// CartRemoveItem serves DELETE /cart/items/{itemID}.
func CartRemoveItem(svc cartsvc.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner := middleware.OwnerFromContext(r.Context())
		cart, err := svc.RemoveItem(r.Context(), owner, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartMutationResponse{
			Success: true,
			Message: "item removed",
			Data:    newCartResponse(cart, pricing.CurrencySymbol),
		})
	}
}
