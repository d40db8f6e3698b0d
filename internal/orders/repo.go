package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/internal/cart"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
)

// Repository exposes persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByOwner(ctx context.Context, owner cart.Owner, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the order repository to the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Cart").
		Preload("Cart.Items").
		Preload("Cart.Items.Inventory").
		Preload("Cart.Items.Inventory.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByOwner(ctx context.Context, owner cart.Owner, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	q := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if owner.UserID != nil {
		q = q.Where("user_id = ?", owner.UserID)
	} else {
		q = q.Where("session_id = ?", owner.SessionID)
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	q := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Cart").Save(order).Error
}
