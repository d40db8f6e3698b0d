package enums

import "fmt"

// FulfillmentType records whether a cart line is destined for home delivery
// or in-branch collection. Delivery lines attract the flat delivery charge.
type FulfillmentType string

const (
	FulfillmentForDelivery   FulfillmentType = "FOR_DELIVERY"
	FulfillmentForCollection FulfillmentType = "FOR_COLLECTION"
)

var validFulfillmentTypes = []FulfillmentType{
	FulfillmentForDelivery,
	FulfillmentForCollection,
}

// String implements fmt.Stringer.
func (f FulfillmentType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentType.
func (f FulfillmentType) IsValid() bool {
	for _, candidate := range validFulfillmentTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFulfillmentType converts raw input into a FulfillmentType.
func ParseFulfillmentType(value string) (FulfillmentType, error) {
	for _, candidate := range validFulfillmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment type %q", value)
}
