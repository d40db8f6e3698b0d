package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

func testPricing() Pricing {
	return Pricing{
		VATRate:         decimal.RequireFromString("0.20"),
		DeliveryFlatFee: decimal.RequireFromString("5.00"),
	}
}

func itemWith(price string, promo *string, qty int, fulfillment enums.FulfillmentType) models.CartItem {
	product := &models.Product{RetailPrice: decimal.RequireFromString(price)}
	if promo != nil {
		p := decimal.RequireFromString(*promo)
		product.PromotionalPrice = &p
	}
	return models.CartItem{
		Quantity:        qty,
		FulfillmentType: fulfillment,
		Inventory:       &models.InventoryItem{Product: product},
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestComputeAggregatesEmptyCart(t *testing.T) {
	t.Parallel()

	agg := ComputeAggregates(nil, testPricing())

	assertDecimal(t, "DeliveryCharge", agg.DeliveryCharge, "0")
	assertDecimal(t, "VATAmount", agg.VATAmount, "0")
	assertDecimal(t, "TotalGross", agg.TotalGross, "0")
	assertDecimal(t, "TotalNet", agg.TotalNet, "0")
}

func TestComputeAggregatesSingleDeliveryItem(t *testing.T) {
	t.Parallel()

	// Two units at £50 gross for delivery.
	items := []models.CartItem{
		itemWith("50", nil, 2, enums.FulfillmentForDelivery),
	}

	agg := ComputeAggregates(items, testPricing())

	assertDecimal(t, "DeliveryTotalGross", agg.DeliveryTotalGross, "100")
	assertDecimal(t, "DeliveryTotalNet", agg.DeliveryTotalNet, "83.33")
	assertDecimal(t, "CollectionTotalGross", agg.CollectionTotalGross, "0")
	assertDecimal(t, "SubtotalGross", agg.SubtotalGross, "100")
	assertDecimal(t, "SubtotalNet", agg.SubtotalNet, "83.33")
	assertDecimal(t, "DeliveryCharge", agg.DeliveryCharge, "5")
	assertDecimal(t, "DeliveryVAT", agg.DeliveryVAT, "1")
	assertDecimal(t, "VATAmount", agg.VATAmount, "17.67")
	assertDecimal(t, "TotalGross", agg.TotalGross, "106")
	assertDecimal(t, "TotalNet", agg.TotalNet, "88.33")
}

func TestComputeAggregatesPromotionalPriceWins(t *testing.T) {
	t.Parallel()

	promo := "40"
	items := []models.CartItem{
		itemWith("50", &promo, 3, enums.FulfillmentForCollection),
	}

	agg := ComputeAggregates(items, testPricing())

	assertDecimal(t, "CollectionTotalGross", agg.CollectionTotalGross, "120")
}

func TestComputeAggregatesZeroPromoFallsBackToRetail(t *testing.T) {
	t.Parallel()

	promo := "0"
	items := []models.CartItem{
		itemWith("50", &promo, 1, enums.FulfillmentForCollection),
	}

	agg := ComputeAggregates(items, testPricing())

	assertDecimal(t, "CollectionTotalGross", agg.CollectionTotalGross, "50")
}

func TestComputeAggregatesNoDeliveryNoCharge(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		itemWith("60", nil, 1, enums.FulfillmentForCollection),
	}

	agg := ComputeAggregates(items, testPricing())

	assertDecimal(t, "DeliveryCharge", agg.DeliveryCharge, "0")
	assertDecimal(t, "DeliveryVAT", agg.DeliveryVAT, "0")
	assertDecimal(t, "TotalGross", agg.TotalGross, "60")
}

func TestComputeAggregatesMixedFulfillment(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		itemWith("50", nil, 2, enums.FulfillmentForDelivery),
		itemWith("60", nil, 1, enums.FulfillmentForCollection),
	}

	agg := ComputeAggregates(items, testPricing())

	assertDecimal(t, "SubtotalGross", agg.SubtotalGross, "160")
	assertDecimal(t, "DeliveryCharge", agg.DeliveryCharge, "5")
	assertDecimal(t, "TotalGross", agg.TotalGross, "166")

	// Removing the delivery line drops the charge entirely.
	agg = ComputeAggregates(items[1:], testPricing())
	assertDecimal(t, "DeliveryCharge", agg.DeliveryCharge, "0")
	assertDecimal(t, "TotalGross", agg.TotalGross, "60")
}

func TestComputeAggregatesTotalIdentities(t *testing.T) {
	t.Parallel()

	promo := "12.49"
	cases := [][]models.CartItem{
		nil,
		{itemWith("50", nil, 2, enums.FulfillmentForDelivery)},
		{itemWith("19.99", nil, 3, enums.FulfillmentForDelivery), itemWith("7.50", &promo, 2, enums.FulfillmentForCollection)},
		{itemWith("0.01", nil, 7, enums.FulfillmentForCollection)},
	}

	for _, items := range cases {
		agg := ComputeAggregates(items, testPricing())
		wantGross := agg.SubtotalGross.Add(agg.DeliveryCharge).Add(agg.DeliveryVAT)
		if !agg.TotalGross.Equal(wantGross) {
			t.Errorf("TotalGross = %s, want subtotal+charge+vat = %s", agg.TotalGross, wantGross)
		}
		wantNet := agg.SubtotalNet.Add(agg.DeliveryCharge)
		if !agg.TotalNet.Equal(wantNet) {
			t.Errorf("TotalNet = %s, want subtotal+charge = %s", agg.TotalNet, wantNet)
		}
	}
}

func TestComputeAggregatesMissingProductCountsAsZero(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{Quantity: 2, FulfillmentType: enums.FulfillmentForDelivery},
	}

	agg := ComputeAggregates(items, testPricing())

	assertDecimal(t, "DeliveryTotalGross", agg.DeliveryTotalGross, "0")
	// The line still counts as a delivery item for the flat charge.
	assertDecimal(t, "DeliveryCharge", agg.DeliveryCharge, "5")
}
