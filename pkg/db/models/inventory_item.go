package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// InventoryItem is the sellable, stock-tracked unit wrapping a Product. The
// storefront and cart always reference inventory, never products directly; a
// product may have several inventory records for different branches.
type InventoryItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`

	StockQty int `gorm:"column:stock_qty;not null;default:0"`
	HeldQty  int `gorm:"column:held_qty;not null;default:0"`

	DeliveryEligible   bool           `gorm:"column:delivery_eligible;not null;default:true"`
	CollectionEligible bool           `gorm:"column:collection_eligible;not null;default:false"`
	CollectionBranches pq.StringArray `gorm:"column:collection_branches;type:text[]"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
