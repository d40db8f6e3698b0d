package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/db"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	"github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/redis"
)

// ResolvedCategory is the storefront view of one category: the node itself,
// its navigation URL, its breadcrumb trail, and its direct children.
type ResolvedCategory struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Level       enums.CategoryLevel `json:"level"`
	URL         string              `json:"url"`
	Breadcrumbs []Crumb             `json:"breadcrumbs"`
	Children    []ResolvedCategory  `json:"children,omitempty"`
}

// CreateCategoryInput carries the admin payload for a new category.
type CreateCategoryInput struct {
	Name     string
	Level    enums.CategoryLevel
	ParentID *uuid.UUID
}

// UpdateCategoryInput carries the admin payload for renaming a category.
// Level and parentage are immutable after creation.
type UpdateCategoryInput struct {
	Name string
}

// CreateBrandInput carries the admin payload for a new brand.
type CreateBrandInput struct {
	Name    string
	LogoURL *string
}

// UpdateBrandInput carries the admin payload for editing a brand.
type UpdateBrandInput struct {
	Name    string
	LogoURL *string
}

// Service exposes catalog reads for the storefront and catalog mutations for
// the back office.
type Service interface {
	Resolve(ctx context.Context, level enums.CategoryLevel, filter ParentFilter) ([]ResolvedCategory, bool)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListBrands(ctx context.Context) ([]models.Brand, error)
	CreateBrand(ctx context.Context, input CreateBrandInput) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, input UpdateBrandInput) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error
}

// Cache is the slice of the Redis client the catalog needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	CatalogVersionKey() string
	CatalogCacheKey(version int64, parts ...string) string
}

type service struct {
	categories CategoryRepository
	brands     BrandRepository
	cache      Cache
	cacheTTL   time.Duration
	logg       *logger.Logger
}

// NewService wires the catalog service. Cache may be nil, in which case every
// resolve hits the database.
func NewService(categories CategoryRepository, brands BrandRepository, cache Cache, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if brands == nil {
		return nil, fmt.Errorf("brand repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		categories: categories,
		brands:     brands,
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		logg:       logg,
	}, nil
}

// Resolve returns the storefront view of the categories at the requested
// level under the supplied ancestors. Missing required ancestor ids yield an
// empty result, and persistence failures degrade to (nil, false) so the
// storefront can render an empty navigation block instead of an error page.
func (s *service) Resolve(ctx context.Context, level enums.CategoryLevel, filter ParentFilter) ([]ResolvedCategory, bool) {
	if !level.IsValid() {
		return []ResolvedCategory{}, true
	}
	if missingAncestor(level, filter) {
		return []ResolvedCategory{}, true
	}

	key := s.resolveCacheKey(ctx, level, filter)
	if cached, ok := s.cachedResolve(ctx, key); ok {
		return cached, true
	}

	categories, err := s.categories.ListByLevel(ctx, level, filter)
	if err != nil {
		s.logg.Error(ctx, "resolving categories", err)
		return nil, false
	}

	resolved := make([]ResolvedCategory, 0, len(categories))
	for _, cat := range categories {
		resolved = append(resolved, resolveOne(cat))
	}

	s.storeResolve(ctx, key, resolved)
	return resolved, true
}

func missingAncestor(level enums.CategoryLevel, filter ParentFilter) bool {
	switch level {
	case enums.CategoryLevelSecondary:
		return filter.PrimaryID == nil
	case enums.CategoryLevelTertiary:
		return filter.PrimaryID == nil || filter.SecondaryID == nil
	case enums.CategoryLevelQuaternary:
		return filter.PrimaryID == nil || filter.SecondaryID == nil || filter.TertiaryID == nil
	}
	return false
}

func (s *service) resolveCacheKey(ctx context.Context, level enums.CategoryLevel, filter ParentFilter) string {
	if s.cache == nil {
		return ""
	}
	version := int64(0)
	raw, err := s.cache.Get(ctx, s.cache.CatalogVersionKey())
	switch {
	case err == nil:
		if parsed, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			version = parsed
		}
	case !redis.IsNil(err):
		s.logg.Warn(ctx, "catalog cache version lookup failed: "+err.Error())
		return ""
	}
	return s.cache.CatalogCacheKey(version, level.String(), idPart(filter.PrimaryID), idPart(filter.SecondaryID), idPart(filter.TertiaryID))
}

func idPart(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func (s *service) cachedResolve(ctx context.Context, key string) ([]ResolvedCategory, bool) {
	if s.cache == nil || key == "" {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Warn(ctx, "catalog cache read failed: "+err.Error())
		}
		return nil, false
	}
	var resolved []ResolvedCategory
	if err := json.Unmarshal([]byte(raw), &resolved); err != nil {
		s.logg.Warn(ctx, "catalog cache entry corrupt: "+err.Error())
		return nil, false
	}
	return resolved, true
}

func (s *service) storeResolve(ctx context.Context, key string, resolved []ResolvedCategory) {
	if s.cache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(resolved)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		s.logg.Warn(ctx, "catalog cache write failed: "+err.Error())
	}
}

// invalidate bumps the catalog cache generation; all cached resolve results
// become unreachable at once.
func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, s.cache.CatalogVersionKey()); err != nil {
		s.logg.Warn(ctx, "catalog cache invalidation failed: "+err.Error())
	}
}

func resolveOne(cat models.Category) ResolvedCategory {
	resolved := ResolvedCategory{
		ID:          cat.ID,
		Name:        cat.Name,
		Level:       cat.Level,
		URL:         NavigationURL(cat),
		Breadcrumbs: Breadcrumbs(cat),
	}
	for _, child := range cat.Children {
		attachParentChain(&child, cat)
		resolved.Children = append(resolved.Children, resolveOne(child))
	}
	return resolved
}

// attachParentChain fills a preloaded child's ancestor references from its
// parent so URL derivation has the ancestor names without extra queries.
func attachParentChain(child *models.Category, parent models.Category) {
	p := parent
	switch parent.Level {
	case enums.CategoryLevelPrimary:
		child.PrimaryCategory = &p
	case enums.CategoryLevelSecondary:
		child.PrimaryCategory = parent.PrimaryCategory
		child.SecondaryCategory = &p
	case enums.CategoryLevelTertiary:
		child.PrimaryCategory = parent.PrimaryCategory
		child.SecondaryCategory = parent.SecondaryCategory
		child.TertiaryCategory = &p
	}
	for i := range child.Children {
		attachParentChain(&child.Children[i], *child)
	}
}

// GetCategory loads one category with its ancestor chain.
func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "category not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading category")
	}
	return category, nil
}

// CreateCategory inserts a category after validating its level/parent pairing
// and denormalizing the ancestor columns from the parent.
func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, errors.New(errors.CodeValidation, "category name is required")
	}
	if !input.Level.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid category level")
	}

	category := &models.Category{
		Name:  input.Name,
		Level: input.Level,
	}

	if input.Level == enums.CategoryLevelPrimary {
		if input.ParentID != nil {
			return nil, errors.New(errors.CodeValidation, "primary categories cannot have a parent")
		}
	} else {
		if input.ParentID == nil {
			return nil, errors.New(errors.CodeValidation, "parent category is required for this level")
		}
		parent, err := s.categories.FindByID(ctx, *input.ParentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.Wrap(errors.CodeNotFound, err, "parent category not found")
			}
			return nil, errors.Wrap(errors.CodeInternal, err, "loading parent category")
		}
		if expected, _ := parent.Level.Child(); expected != input.Level {
			return nil, errors.New(errors.CodeValidation,
				fmt.Sprintf("a %s category cannot parent a %s category", parent.Level, input.Level))
		}
		category.ParentID = input.ParentID
		fillDenormalizedAncestors(category, parent)
	}

	created, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating category")
	}
	s.invalidate(ctx)
	return created, nil
}

// fillDenormalizedAncestors copies the parent's ancestor ids onto the child
// and adds the parent itself at its own level.
func fillDenormalizedAncestors(category *models.Category, parent *models.Category) {
	category.PrimaryCategoryID = parent.PrimaryCategoryID
	category.SecondaryCategoryID = parent.SecondaryCategoryID
	category.TertiaryCategoryID = parent.TertiaryCategoryID
	parentID := parent.ID
	switch parent.Level {
	case enums.CategoryLevelPrimary:
		category.PrimaryCategoryID = &parentID
	case enums.CategoryLevelSecondary:
		category.SecondaryCategoryID = &parentID
	case enums.CategoryLevelTertiary:
		category.TertiaryCategoryID = &parentID
	}
}

// UpdateCategory renames a category.
func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, errors.New(errors.CodeValidation, "category name is required")
	}
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "category not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading category")
	}
	category.Name = input.Name
	updated, err := s.categories.Update(ctx, category)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating category")
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteCategory removes a category; the schema cascades to descendants.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.Wrap(errors.CodeNotFound, err, "category not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "loading category")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting category")
	}
	s.invalidate(ctx)
	return nil
}

// ListBrands returns all brands sorted by name.
func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.brands.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing brands")
	}
	return brands, nil
}

// CreateBrand inserts a new brand.
func (s *service) CreateBrand(ctx context.Context, input CreateBrandInput) (*models.Brand, error) {
	if input.Name == "" {
		return nil, errors.New(errors.CodeValidation, "brand name is required")
	}
	created, err := s.brands.Create(ctx, &models.Brand{Name: input.Name, LogoURL: input.LogoURL})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, errors.Wrap(errors.CodeConflict, err, "a brand with this name already exists")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "creating brand")
	}
	s.invalidate(ctx)
	return created, nil
}

// UpdateBrand edits an existing brand.
func (s *service) UpdateBrand(ctx context.Context, id uuid.UUID, input UpdateBrandInput) (*models.Brand, error) {
	if input.Name == "" {
		return nil, errors.New(errors.CodeValidation, "brand name is required")
	}
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Wrap(errors.CodeNotFound, err, "brand not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading brand")
	}
	brand.Name = input.Name
	if input.LogoURL != nil {
		brand.LogoURL = input.LogoURL
	}
	updated, err := s.brands.Update(ctx, brand)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, errors.Wrap(errors.CodeConflict, err, "a brand with this name already exists")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "updating brand")
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteBrand removes a brand.
func (s *service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brands.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.Wrap(errors.CodeNotFound, err, "brand not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "loading brand")
	}
	if err := s.brands.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting brand")
	}
	s.invalidate(ctx)
	return nil
}
