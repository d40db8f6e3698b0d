package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	"github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
)

// CategoryFinder resolves the category a product is filed under.
type CategoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// Page is one page of a cursor-paginated product listing.
type Page struct {
	Products   []models.Product
	NextCursor string
}

// Service exposes product reads for the storefront and product/inventory
// management for the back office.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error)
	GetByInventoryID(ctx context.Context, inventoryID uuid.UUID) (*models.InventoryItem, error)

	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UpsertInventory(ctx context.Context, input InventoryInput) (*models.InventoryItem, error)
}

type service struct {
	repo       Repository
	categories CategoryFinder
	logg       *logger.Logger
}

// NewService wires the product service.
func NewService(repo Repository, categories CategoryFinder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category finder is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, categories: categories, logg: logg}, nil
}

// List returns a storefront page of products matching the filter, newest
// first, with an opaque cursor for the next page.
func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filter, limit+1, cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing products")
	}

	page := &Page{Products: rows}
	if len(rows) > limit {
		page.Products = rows[:limit]
		last := page.Products[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// GetByInventoryID loads the sellable detail view: the inventory record with
// its product, brand, and ordered images.
func (s *service) GetByInventoryID(ctx context.Context, inventoryID uuid.UUID) (*models.InventoryItem, error) {
	inventory, err := s.repo.FindInventoryByID(ctx, inventoryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "product not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading inventory")
	}
	return inventory, nil
}

// CreateProduct inserts a product filed under the given category.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := input.toModel()
	if input.CategoryID != nil {
		if err := s.fileUnderCategory(ctx, product, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating product")
	}
	return created, nil
}

// UpdateProduct replaces a product's editable fields, refiling it if the
// category changed.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "product not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading product")
	}

	input.applyTo(existing)
	if input.CategoryID != nil {
		if err := s.fileUnderCategory(ctx, existing, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating product")
	}
	return updated, nil
}

// DeleteProduct removes a product; images cascade.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.Wrap(errors.CodeNotFound, err, "product not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "loading product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting product")
	}
	return nil
}

// UpsertInventory creates or updates the stock record for a product.
func (s *service) UpsertInventory(ctx context.Context, input InventoryInput) (*models.InventoryItem, error) {
	if input.StockQty < 0 || input.HeldQty < 0 {
		return nil, errors.New(errors.CodeValidation, "stock quantities must not be negative")
	}
	if !input.DeliveryEligible && !input.CollectionEligible {
		return nil, errors.New(errors.CodeValidation, "inventory must be eligible for delivery or collection")
	}

	if _, err := s.repo.FindByID(ctx, input.ProductID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "product not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading product")
	}

	inventory := &models.InventoryItem{
		ProductID:          input.ProductID,
		StockQty:           input.StockQty,
		HeldQty:            input.HeldQty,
		DeliveryEligible:   input.DeliveryEligible,
		CollectionEligible: input.CollectionEligible,
		CollectionBranches: input.CollectionBranches,
	}
	if input.ID != nil {
		existing, err := s.repo.FindInventoryByID(ctx, *input.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.Wrap(errors.CodeNotFound, err, "inventory not found")
			}
			return nil, errors.Wrap(errors.CodeInternal, err, "loading inventory")
		}
		inventory.ID = existing.ID
		inventory.CreatedAt = existing.CreatedAt
	}

	saved, err := s.repo.SaveInventory(ctx, inventory)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "saving inventory")
	}
	return saved, nil
}

// fileUnderCategory sets the product's denormalized category columns from the
// filing node: the node's own id at its level plus its ancestor ids above.
func (s *service) fileUnderCategory(ctx context.Context, product *models.Product, categoryID uuid.UUID) error {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.Wrap(errors.CodeNotFound, err, "category not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "loading category")
	}

	product.PrimaryCategoryID = category.PrimaryCategoryID
	product.SecondaryCategoryID = category.SecondaryCategoryID
	product.TertiaryCategoryID = category.TertiaryCategoryID
	product.QuaternaryCategoryID = nil

	ownID := category.ID
	switch category.Level {
	case enums.CategoryLevelPrimary:
		product.PrimaryCategoryID = &ownID
	case enums.CategoryLevelSecondary:
		product.SecondaryCategoryID = &ownID
	case enums.CategoryLevelTertiary:
		product.TertiaryCategoryID = &ownID
	case enums.CategoryLevelQuaternary:
		product.QuaternaryCategoryID = &ownID
	}
	return nil
}

// LinePrice returns the effective unit price shown on the storefront:
// promotional when present and positive, else retail.
func LinePrice(product models.Product) decimal.Decimal {
	if product.PromotionalPrice != nil && product.PromotionalPrice.IsPositive() {
		return *product.PromotionalPrice
	}
	return product.RetailPrice
}
