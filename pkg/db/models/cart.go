package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

// Cart holds a shopper's line items plus the persisted monetary aggregates.
//
// Exactly one of UserID and SessionID is set. The aggregate columns are always
// a pure function of the current items; every item mutation rewrites them in
// the same transaction, there is no compute-on-read path.
type Cart struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID       `gorm:"column:user_id;type:uuid"`
	SessionID *string          `gorm:"column:session_id"`
	Status    enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`

	DeliveryTotalGross   decimal.Decimal `gorm:"column:delivery_total_gross;type:numeric(12,2);not null;default:0"`
	DeliveryTotalNet     decimal.Decimal `gorm:"column:delivery_total_net;type:numeric(12,2);not null;default:0"`
	CollectionTotalGross decimal.Decimal `gorm:"column:collection_total_gross;type:numeric(12,2);not null;default:0"`
	CollectionTotalNet   decimal.Decimal `gorm:"column:collection_total_net;type:numeric(12,2);not null;default:0"`
	SubtotalGross        decimal.Decimal `gorm:"column:subtotal_gross;type:numeric(12,2);not null;default:0"`
	SubtotalNet          decimal.Decimal `gorm:"column:subtotal_net;type:numeric(12,2);not null;default:0"`
	DeliveryCharge       decimal.Decimal `gorm:"column:delivery_charge;type:numeric(12,2);not null;default:0"`
	VATAmount            decimal.Decimal `gorm:"column:vat_amount;type:numeric(12,2);not null;default:0"`
	TotalGross           decimal.Decimal `gorm:"column:total_gross;type:numeric(12,2);not null;default:0"`
	TotalNet             decimal.Decimal `gorm:"column:total_net;type:numeric(12,2);not null;default:0"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
