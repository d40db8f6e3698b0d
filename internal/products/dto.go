package products

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/errors"
)

// ImageInput is one ordered image reference on a product payload.
type ImageInput struct {
	URL     string
	AltText *string
}

// ProductInput carries the admin payload for creating or updating a product.
type ProductInput struct {
	Name        string
	Description *string

	RetailPrice      decimal.Decimal
	PromotionalPrice *decimal.Decimal
	TradePrice       *decimal.Decimal
	ContractPrice    *decimal.Decimal

	LengthMM *float64
	WidthMM  *float64
	HeightMM *float64
	WeightKG *float64
	Material *string
	Colour   *string

	BrandID    *uuid.UUID
	CategoryID *uuid.UUID

	Images []ImageInput
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return errors.New(errors.CodeValidation, "product name is required")
	}
	if in.RetailPrice.IsNegative() {
		return errors.New(errors.CodeValidation, "retail price must not be negative")
	}
	if in.PromotionalPrice != nil && in.PromotionalPrice.IsNegative() {
		return errors.New(errors.CodeValidation, "promotional price must not be negative")
	}
	for _, img := range in.Images {
		if img.URL == "" {
			return errors.New(errors.CodeValidation, "image url is required")
		}
	}
	return nil
}

func (in ProductInput) toModel() *models.Product {
	product := &models.Product{}
	in.applyTo(product)
	return product
}

func (in ProductInput) applyTo(product *models.Product) {
	product.Name = in.Name
	product.Description = in.Description
	product.RetailPrice = in.RetailPrice
	product.PromotionalPrice = in.PromotionalPrice
	product.TradePrice = in.TradePrice
	product.ContractPrice = in.ContractPrice
	product.LengthMM = in.LengthMM
	product.WidthMM = in.WidthMM
	product.HeightMM = in.HeightMM
	product.WeightKG = in.WeightKG
	product.Material = in.Material
	product.Colour = in.Colour
	product.BrandID = in.BrandID

	product.Images = make([]models.ProductImage, 0, len(in.Images))
	for i, img := range in.Images {
		product.Images = append(product.Images, models.ProductImage{
			ProductID: product.ID,
			URL:       img.URL,
			AltText:   img.AltText,
			Position:  i,
		})
	}
}

// InventoryInput carries the admin payload for creating or updating an
// inventory record.
type InventoryInput struct {
	ID                 *uuid.UUID
	ProductID          uuid.UUID
	StockQty           int
	HeldQty            int
	DeliveryEligible   bool
	CollectionEligible bool
	CollectionBranches pq.StringArray
}
