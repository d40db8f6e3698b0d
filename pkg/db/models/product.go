package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. Prices are VAT-inclusive.
//
// A product is filed at exactly one node of the category hierarchy; the
// ancestor ids above that node are denormalized for filtering, so only the
// columns down to the filing level are populated.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`

	RetailPrice      decimal.Decimal  `gorm:"column:retail_price;type:numeric(12,2);not null"`
	PromotionalPrice *decimal.Decimal `gorm:"column:promotional_price;type:numeric(12,2)"`
	TradePrice       *decimal.Decimal `gorm:"column:trade_price;type:numeric(12,2)"`
	ContractPrice    *decimal.Decimal `gorm:"column:contract_price;type:numeric(12,2)"`

	LengthMM *float64 `gorm:"column:length_mm;type:numeric(10,2)"`
	WidthMM  *float64 `gorm:"column:width_mm;type:numeric(10,2)"`
	HeightMM *float64 `gorm:"column:height_mm;type:numeric(10,2)"`
	WeightKG *float64 `gorm:"column:weight_kg;type:numeric(10,3)"`
	Material *string  `gorm:"column:material"`
	Colour   *string  `gorm:"column:colour"`

	BrandID *uuid.UUID `gorm:"column:brand_id;type:uuid"`
	Brand   *Brand     `gorm:"foreignKey:BrandID"`

	PrimaryCategoryID    *uuid.UUID `gorm:"column:primary_category_id;type:uuid"`
	SecondaryCategoryID  *uuid.UUID `gorm:"column:secondary_category_id;type:uuid"`
	TertiaryCategoryID   *uuid.UUID `gorm:"column:tertiary_category_id;type:uuid"`
	QuaternaryCategoryID *uuid.UUID `gorm:"column:quaternary_category_id;type:uuid"`

	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
