package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oakfield-supplies/storefront-backend/api/responses"
	"github.com/oakfield-supplies/storefront-backend/api/validators"
	"github.com/oakfield-supplies/storefront-backend/internal/products"
	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	pkgerrors "github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

type productImagePayload struct {
	URL     string  `json:"url" validate:"required"`
	AltText *string `json:"alt_text"`
}

type productRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`

	RetailPrice      string  `json:"retail_price" validate:"required"`
	PromotionalPrice *string `json:"promotional_price"`
	TradePrice       *string `json:"trade_price"`
	ContractPrice    *string `json:"contract_price"`

	LengthMM *float64 `json:"length_mm"`
	WidthMM  *float64 `json:"width_mm"`
	HeightMM *float64 `json:"height_mm"`
	WeightKG *float64 `json:"weight_kg"`
	Material *string  `json:"material"`
	Colour   *string  `json:"colour"`

	BrandID    *uuid.UUID `json:"brand_id"`
	CategoryID *uuid.UUID `json:"category_id"`

	Images []productImagePayload `json:"images" validate:"dive"`
}

func parsePrice(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, field+" is not a valid amount")
	}
	return value, nil
}

func parseOptionalPrice(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parsePrice(field, *raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (p productRequest) toInput() (products.ProductInput, error) {
	retail, err := parsePrice("retail_price", p.RetailPrice)
	if err != nil {
		return products.ProductInput{}, err
	}
	promo, err := parseOptionalPrice("promotional_price", p.PromotionalPrice)
	if err != nil {
		return products.ProductInput{}, err
	}
	trade, err := parseOptionalPrice("trade_price", p.TradePrice)
	if err != nil {
		return products.ProductInput{}, err
	}
	contract, err := parseOptionalPrice("contract_price", p.ContractPrice)
	if err != nil {
		return products.ProductInput{}, err
	}

	input := products.ProductInput{
		Name:             p.Name,
		Description:      p.Description,
		RetailPrice:      retail,
		PromotionalPrice: promo,
		TradePrice:       trade,
		ContractPrice:    contract,
		LengthMM:         p.LengthMM,
		WidthMM:          p.WidthMM,
		HeightMM:         p.HeightMM,
		WeightKG:         p.WeightKG,
		Material:         p.Material,
		Colour:           p.Colour,
		BrandID:          p.BrandID,
		CategoryID:       p.CategoryID,
	}
	for _, img := range p.Images {
		input.Images = append(input.Images, products.ImageInput{URL: img.URL, AltText: img.AltText})
	}
	return input, nil
}

// AdminProductCreate serves POST /admin/products.
func AdminProductCreate(svc products.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(*created, pricing.CurrencySymbol))
	}
}

// AdminProductUpdate serves PUT /admin/products/{productID}.
func AdminProductUpdate(svc products.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*updated, pricing.CurrencySymbol))
	}
}

// AdminProductDelete serves DELETE /admin/products/{productID}.
func AdminProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type inventoryRequest struct {
	ID                 *uuid.UUID `json:"id"`
	ProductID          uuid.UUID  `json:"product_id" validate:"required"`
	StockQty           int        `json:"stock_qty"`
	HeldQty            int        `json:"held_qty"`
	DeliveryEligible   bool       `json:"delivery_eligible"`
	CollectionEligible bool       `json:"collection_eligible"`
	CollectionBranches []string   `json:"collection_branches"`
}

// AdminInventoryUpsert serves PUT /admin/inventory.
func AdminInventoryUpsert(svc products.Service, pricing config.PricingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload inventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpsertInventory(r.Context(), products.InventoryInput{
			ID:                 payload.ID,
			ProductID:          payload.ProductID,
			StockQty:           payload.StockQty,
			HeldQty:            payload.HeldQty,
			DeliveryEligible:   payload.DeliveryEligible,
			CollectionEligible: payload.CollectionEligible,
			CollectionBranches: payload.CollectionBranches,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newInventoryResponse(*item, pricing.CurrencySymbol))
	}
}
