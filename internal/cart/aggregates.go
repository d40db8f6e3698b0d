package cart

import (
	"github.com/shopspring/decimal"

	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

// Pricing carries the injected tax and fulfillment constants the calculator
// runs on.
type Pricing struct {
	VATRate         decimal.Decimal
	DeliveryFlatFee decimal.Decimal
}

// PricingFromConfig maps the service configuration onto calculator inputs.
func PricingFromConfig(cfg config.PricingConfig) Pricing {
	return Pricing{
		VATRate:         cfg.VATRate,
		DeliveryFlatFee: cfg.DeliveryFlatFee,
	}
}

// Aggregates are the derived monetary fields persisted on a cart. Gross
// amounts include VAT, net amounts exclude it.
type Aggregates struct {
	DeliveryTotalGross   decimal.Decimal
	DeliveryTotalNet     decimal.Decimal
	CollectionTotalGross decimal.Decimal
	CollectionTotalNet   decimal.Decimal
	SubtotalGross        decimal.Decimal
	SubtotalNet          decimal.Decimal
	DeliveryCharge       decimal.Decimal
	DeliveryVAT          decimal.Decimal
	VATAmount            decimal.Decimal
	TotalGross           decimal.Decimal
	TotalNet             decimal.Decimal
}

// ComputeAggregates is the single calculator behind every cart mutation. It
// is a pure function of the items and the pricing constants: callers persist
// the result in the same transaction as the item change.
//
// Unit price is the promotional price when present and positive, else the
// retail price. Prices are VAT-inclusive; net conversions divide by (1+rate)
// and round to two decimal places.
func ComputeAggregates(items []models.CartItem, pricing Pricing) Aggregates {
	deliveryGross := decimal.Zero
	collectionGross := decimal.Zero
	hasDeliveryItems := false

	for _, item := range items {
		line := unitPrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
		switch item.FulfillmentType {
		case enums.FulfillmentForDelivery:
			deliveryGross = deliveryGross.Add(line)
			hasDeliveryItems = true
		case enums.FulfillmentForCollection:
			collectionGross = collectionGross.Add(line)
		}
	}

	deliveryCharge := decimal.Zero
	if hasDeliveryItems {
		deliveryCharge = pricing.DeliveryFlatFee
	}
	deliveryVAT := deliveryCharge.Mul(pricing.VATRate).Round(2)

	deliveryNet := netOf(deliveryGross, pricing.VATRate)
	collectionNet := netOf(collectionGross, pricing.VATRate)

	subtotalGross := deliveryGross.Add(collectionGross)
	subtotalNet := deliveryNet.Add(collectionNet)

	return Aggregates{
		DeliveryTotalGross:   deliveryGross,
		DeliveryTotalNet:     deliveryNet,
		CollectionTotalGross: collectionGross,
		CollectionTotalNet:   collectionNet,
		SubtotalGross:        subtotalGross,
		SubtotalNet:          subtotalNet,
		DeliveryCharge:       deliveryCharge,
		DeliveryVAT:          deliveryVAT,
		VATAmount:            subtotalGross.Sub(subtotalNet).Add(deliveryVAT),
		TotalGross:           subtotalGross.Add(deliveryCharge).Add(deliveryVAT),
		TotalNet:             subtotalNet.Add(deliveryCharge),
	}
}

func unitPrice(item models.CartItem) decimal.Decimal {
	if item.Inventory == nil || item.Inventory.Product == nil {
		return decimal.Zero
	}
	product := item.Inventory.Product
	if product.PromotionalPrice != nil && product.PromotionalPrice.IsPositive() {
		return *product.PromotionalPrice
	}
	return product.RetailPrice
}

func netOf(gross decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(rate)
	if divisor.IsZero() {
		return gross
	}
	return gross.DivRound(divisor, 2)
}

// Apply writes the aggregates onto the cart record.
func (a Aggregates) Apply(cart *models.Cart) {
	cart.DeliveryTotalGross = a.DeliveryTotalGross
	cart.DeliveryTotalNet = a.DeliveryTotalNet
	cart.CollectionTotalGross = a.CollectionTotalGross
	cart.CollectionTotalNet = a.CollectionTotalNet
	cart.SubtotalGross = a.SubtotalGross
	cart.SubtotalNet = a.SubtotalNet
	cart.DeliveryCharge = a.DeliveryCharge
	cart.VATAmount = a.VATAmount
	cart.TotalGross = a.TotalGross
	cart.TotalNet = a.TotalNet
}
