package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oakfield-supplies/storefront-backend/api/responses"
	"github.com/oakfield-supplies/storefront-backend/api/validators"
	"github.com/oakfield-supplies/storefront-backend/internal/products"
	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
	"github.com/oakfield-supplies/storefront-backend/pkg/types"
)

type productImageResponse struct {
	URL     string  `json:"url"`
	AltText *string `json:"alt_text,omitempty"`
}

type productResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description *string                `json:"description,omitempty"`
	Price       string                 `json:"price"`
	RetailPrice string                 `json:"retail_price"`
	PromoPrice  *string                `json:"promotional_price,omitempty"`
	Brand       *brandResponse         `json:"brand,omitempty"`
	Images      []productImageResponse `json:"images"`
}

type productPageResponse struct {
	Products   []productResponse `json:"products"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func newProductResponse(product models.Product, symbol string) productResponse {
	view := productResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       types.FormatMoney(symbol, products.LinePrice(product)),
		RetailPrice: types.FormatMoney(symbol, product.RetailPrice),
		Images:      make([]productImageResponse, 0, len(product.Images)),
	}
	if promo := product.PromotionalPrice; promo != nil && promo.IsPositive() {
		formatted := types.FormatMoney(symbol, *promo)
		view.PromoPrice = &formatted
	}
	if product.Brand != nil {
		brand := newBrandResponse(*product.Brand)
		view.Brand = &brand
	}
	for _, image := range product.Images {
		view.Images = append(view.Images, productImageResponse{URL: image.URL, AltText: image.AltText})
	}
	return view
}

// ProductsList serves the storefront listing:
// GET /products?p_id=&s_id=&t_id=&q_id=&brand_id=&q=&limit=&cursor=
func ProductsList(svc products.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filter, err := listFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := productPageResponse{
			Products:   make([]productResponse, 0, len(page.Products)),
			NextCursor: page.NextCursor,
		}
		for _, product := range page.Products {
			payload.Products = append(payload.Products, newProductResponse(product, pricing.CurrencySymbol))
		}
		responses.WriteSuccess(w, payload)
	}
}

func listFilterFromQuery(r *http.Request) (products.ListFilter, error) {
	var filter products.ListFilter
	var err error
	if filter.PrimaryCategoryID, err = validators.ParseQueryUUID(r, "p_id"); err != nil {
		return filter, err
	}
	if filter.SecondaryCategoryID, err = validators.ParseQueryUUID(r, "s_id"); err != nil {
		return filter, err
	}
	if filter.TertiaryCategoryID, err = validators.ParseQueryUUID(r, "t_id"); err != nil {
		return filter, err
	}
	if filter.QuaternaryCategoryID, err = validators.ParseQueryUUID(r, "q_id"); err != nil {
		return filter, err
	}
	if filter.BrandID, err = validators.ParseQueryUUID(r, "brand_id"); err != nil {
		return filter, err
	}
	filter.Search = strings.TrimSpace(r.URL.Query().Get("q"))
	return filter, nil
}

type inventoryResponse struct {
	ID                 string          `json:"id"`
	StockQty           int             `json:"stock_qty"`
	DeliveryEligible   bool            `json:"delivery_eligible"`
	CollectionEligible bool            `json:"collection_eligible"`
	CollectionBranches []string        `json:"collection_branches,omitempty"`
	Product            productResponse `json:"product"`
}

func newInventoryResponse(inventory models.InventoryItem, symbol string) inventoryResponse {
	view := inventoryResponse{
		ID:                 inventory.ID.String(),
		StockQty:           inventory.StockQty,
		DeliveryEligible:   inventory.DeliveryEligible,
		CollectionEligible: inventory.CollectionEligible,
		CollectionBranches: inventory.CollectionBranches,
	}
	if inventory.Product != nil {
		view.Product = newProductResponse(*inventory.Product, symbol)
	}
	return view
}

// ProductDetail serves GET /products/{inventoryID}. The detail view is keyed
// by inventory, not product, since inventory is the sellable unit.
func ProductDetail(svc products.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		inventoryID, err := validators.ParsePathUUID(chi.URLParam(r, "inventoryID"), "inventoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventory, err := svc.GetByInventoryID(r.Context(), inventoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newInventoryResponse(*inventory, pricing.CurrencySymbol))
	}
}
