package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
)

// ListFilter narrows a storefront product listing.
type ListFilter struct {
	PrimaryCategoryID    *uuid.UUID
	SecondaryCategoryID  *uuid.UUID
	TertiaryCategoryID   *uuid.UUID
	QuaternaryCategoryID *uuid.UUID
	BrandID              *uuid.UUID
	Search               string
}

// Repository exposes persistence operations for products and inventory.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	FindInventoryByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListInventoryByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryItem, error)
	SaveInventory(ctx context.Context, inventory *models.InventoryItem) (*models.InventoryItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the product repository to the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.position ASC")
		}).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if filter.PrimaryCategoryID != nil {
		q = q.Where("primary_category_id = ?", filter.PrimaryCategoryID)
	}
	if filter.SecondaryCategoryID != nil {
		q = q.Where("secondary_category_id = ?", filter.SecondaryCategoryID)
	}
	if filter.TertiaryCategoryID != nil {
		q = q.Where("tertiary_category_id = ?", filter.TertiaryCategoryID)
	}
	if filter.QuaternaryCategoryID != nil {
		q = q.Where("quaternary_category_id = ?", filter.QuaternaryCategoryID)
	}
	if filter.BrandID != nil {
		q = q.Where("brand_id = ?", filter.BrandID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.position ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(product).Error
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (r *repository) FindInventoryByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var inventory models.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Brand").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.position ASC")
		}).
		First(&inventory, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *repository) ListInventoryByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) SaveInventory(ctx context.Context, inventory *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(inventory).Error; err != nil {
		return nil, err
	}
	return inventory, nil
}
