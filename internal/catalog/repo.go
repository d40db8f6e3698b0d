package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

// ParentFilter narrows a category query to the supplied ancestor ids.
type ParentFilter struct {
	PrimaryID   *uuid.UUID
	SecondaryID *uuid.UUID
	TertiaryID  *uuid.UUID
}

// CategoryRepository exposes persistence operations for the category tree.
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	ListByLevel(ctx context.Context, level enums.CategoryLevel, filter ParentFilter) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository implements CategoryRepository on GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListByLevel returns categories of the requested level filtered by the
// supplied ancestor ids, sorted by name, with children and ancestor chain
// preloaded. Primary categories preload two levels of descendants for the
// navigation menus.
func (r *Repository) ListByLevel(ctx context.Context, level enums.CategoryLevel, filter ParentFilter) ([]models.Category, error) {
	q := r.db.WithContext(ctx).
		Where("level = ?", level).
		Order("name ASC")

	switch level {
	case enums.CategoryLevelPrimary:
		q = q.Preload("Children", sortedByName).
			Preload("Children.Children", sortedByName)
	case enums.CategoryLevelSecondary:
		q = q.Where("primary_category_id = ?", filter.PrimaryID).
			Preload("Children", sortedByName).
			Preload("PrimaryCategory")
	case enums.CategoryLevelTertiary:
		q = q.Where("primary_category_id = ? AND secondary_category_id = ?", filter.PrimaryID, filter.SecondaryID).
			Preload("Children", sortedByName).
			Preload("PrimaryCategory").
			Preload("SecondaryCategory")
	case enums.CategoryLevelQuaternary:
		q = q.Where("primary_category_id = ? AND secondary_category_id = ? AND tertiary_category_id = ?",
			filter.PrimaryID, filter.SecondaryID, filter.TertiaryID).
			Preload("PrimaryCategory").
			Preload("SecondaryCategory").
			Preload("TertiaryCategory")
	}

	var categories []models.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func sortedByName(db *gorm.DB) *gorm.DB {
	return db.Order("categories.name ASC")
}

// FindByID loads a category with its ancestor chain.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("PrimaryCategory").
		Preload("SecondaryCategory").
		Preload("TertiaryCategory").
		First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update saves the provided category.
func (r *Repository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category; the schema cascades to descendants.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}
