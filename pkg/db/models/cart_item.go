package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

// CartItem references one inventory record with a quantity and fulfillment
// type. Uniqueness is (cart, inventory, fulfillment type); adding the same
// pair again increments quantity instead of inserting a second row.
type CartItem struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID          uuid.UUID             `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_inventory_fulfillment,priority:1"`
	InventoryID     uuid.UUID             `gorm:"column:inventory_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_inventory_fulfillment,priority:2"`
	Inventory       *InventoryItem        `gorm:"foreignKey:InventoryID"`
	Quantity        int                   `gorm:"column:quantity;not null"`
	FulfillmentType enums.FulfillmentType `gorm:"column:fulfillment_type;type:fulfillment_type;not null;uniqueIndex:idx_cart_items_cart_inventory_fulfillment,priority:3"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
