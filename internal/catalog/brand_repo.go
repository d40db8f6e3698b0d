package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
)

// BrandRepository exposes persistence operations for brands.
type BrandRepository interface {
	WithTx(tx *gorm.DB) BrandRepository
	List(ctx context.Context) ([]models.Brand, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	Create(ctx context.Context, brand *models.Brand) (*models.Brand, error)
	Update(ctx context.Context, brand *models.Brand) (*models.Brand, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type brandRepository struct {
	db *gorm.DB
}

// NewBrandRepository binds the brand repository to the provided DB handle.
func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) WithTx(tx *gorm.DB) BrandRepository {
	if tx == nil {
		return r
	}
	return &brandRepository{db: tx}
}

func (r *brandRepository) List(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error
	if err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) Create(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

func (r *brandRepository) Update(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.db.WithContext(ctx).Save(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

func (r *brandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Brand{}, "id = ?", id).Error
}
