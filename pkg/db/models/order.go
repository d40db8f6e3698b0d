package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

// Order is a finalized snapshot of a converted cart. Totals are copied from
// the cart at conversion time and never recomputed afterwards.
type Order struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID  `gorm:"column:cart_id;type:uuid;not null"`
	Cart      *Cart      `gorm:"foreignKey:CartID"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	SessionID *string    `gorm:"column:session_id"`

	Status        enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'unpaid'"`

	SubtotalGross  decimal.Decimal `gorm:"column:subtotal_gross;type:numeric(12,2);not null;default:0"`
	SubtotalNet    decimal.Decimal `gorm:"column:subtotal_net;type:numeric(12,2);not null;default:0"`
	DeliveryCharge decimal.Decimal `gorm:"column:delivery_charge;type:numeric(12,2);not null;default:0"`
	VATAmount      decimal.Decimal `gorm:"column:vat_amount;type:numeric(12,2);not null;default:0"`
	TotalGross     decimal.Decimal `gorm:"column:total_gross;type:numeric(12,2);not null;default:0"`
	TotalNet       decimal.Decimal `gorm:"column:total_net;type:numeric(12,2);not null;default:0"`

	PaidAt      *time.Time `gorm:"column:paid_at"`
	ShippedAt   *time.Time `gorm:"column:shipped_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	RefundedAt  *time.Time `gorm:"column:refunded_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
