package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

// Owner identifies who a cart belongs to: an authenticated user or an
// anonymous session, never both.
type Owner struct {
	UserID    *uuid.UUID
	SessionID *string
}

// IsZero reports whether neither owner field is set.
func (o Owner) IsZero() bool {
	return o.UserID == nil && (o.SessionID == nil || *o.SessionID == "")
}

// Tag returns a stable string identifying the owner, used for cache tags and
// log fields.
func (o Owner) Tag() string {
	if o.UserID != nil {
		return "user:" + o.UserID.String()
	}
	if o.SessionID != nil {
		return "session:" + *o.SessionID
	}
	return ""
}

// Repository exposes persistence operations for carts and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByOwner(ctx context.Context, owner Owner) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByInventory(ctx context.Context, cartID, inventoryID uuid.UUID, fulfillment enums.FulfillmentType) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	FindInventory(ctx context.Context, inventoryID uuid.UUID) (*models.InventoryItem, error)
	DeleteAbandonedAnonymous(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the cart repository to the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByOwner(ctx context.Context, owner Owner) (*models.Cart, error) {
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Inventory").
		Preload("Items.Inventory.Product").
		Where("status = ?", enums.CartStatusActive)
	if owner.UserID != nil {
		q = q.Where("user_id = ?", owner.UserID)
	} else {
		q = q.Where("session_id = ?", owner.SessionID)
	}

	var cart models.Cart
	if err := q.First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *repository) Save(ctx context.Context, cart *models.Cart) error {
	// Omit Items so aggregate writes never upsert association rows.
	return r.db.WithContext(ctx).Omit("Items").Save(cart).Error
}

func (r *repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Inventory").
		Preload("Inventory.Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemByInventory(ctx context.Context, cartID, inventoryID uuid.UUID, fulfillment enums.FulfillmentType) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND inventory_id = ? AND fulfillment_type = ?", cartID, inventoryID, fulfillment).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("Inventory").Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID).Error
}

func (r *repository) FindInventory(ctx context.Context, inventoryID uuid.UUID) (*models.InventoryItem, error) {
	var inventory models.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&inventory, "id = ?", inventoryID).Error
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

// DeleteAbandonedAnonymous removes active anonymous-session carts untouched
// since the cutoff; item rows cascade.
func (r *repository) DeleteAbandonedAnonymous(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("session_id IS NOT NULL AND status = ? AND updated_at < ?", enums.CartStatusActive, cutoff).
		Delete(&models.Cart{})
	return result.RowsAffected, result.Error
}
