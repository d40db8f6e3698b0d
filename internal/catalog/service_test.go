package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	"github.com/oakfield-supplies/storefront-backend/pkg/errors"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

type stubCategoryRepo struct {
	listResult []models.Category
	listErr    error
	listCalls  int

	byID map[uuid.UUID]*models.Category

	created *models.Category
	updated *models.Category
	deleted []uuid.UUID
}

func (s *stubCategoryRepo) WithTx(tx *gorm.DB) CategoryRepository { return s }

func (s *stubCategoryRepo) ListByLevel(ctx context.Context, level enums.CategoryLevel, filter ParentFilter) ([]models.Category, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listResult, nil
}

func (s *stubCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if cat, ok := s.byID[id]; ok {
		return cat, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.ID = uuid.New()
	s.created = category
	return category, nil
}

func (s *stubCategoryRepo) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	s.updated = category
	return category, nil
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubBrandRepo struct {
	brands []models.Brand
}

func (s *stubBrandRepo) WithTx(tx *gorm.DB) BrandRepository { return s }

func (s *stubBrandRepo) List(ctx context.Context) ([]models.Brand, error) {
	return s.brands, nil
}

func (s *stubBrandRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	for i := range s.brands {
		if s.brands[i].ID == id {
			return &s.brands[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBrandRepo) Create(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	brand.ID = uuid.New()
	s.brands = append(s.brands, *brand)
	return brand, nil
}

func (s *stubBrandRepo) Update(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	return brand, nil
}

func (s *stubBrandRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

// stubCache is an in-memory stand-in for the Redis catalog cache.
type stubCache struct {
	values map[string]string
	incrs  int
}

func newStubCache() *stubCache {
	return &stubCache{values: map[string]string{}}
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = fmt.Sprint(value)
	return nil
}

func (s *stubCache) Incr(ctx context.Context, key string) (int64, error) {
	s.incrs++
	cur := int64(0)
	fmt.Sscan(s.values[key], &cur)
	cur++
	s.values[key] = fmt.Sprint(cur)
	return cur, nil
}

func (s *stubCache) CatalogVersionKey() string {
	return "sf:catalog:version"
}

func (s *stubCache) CatalogCacheKey(version int64, parts ...string) string {
	key := fmt.Sprintf("sf:catalog:v%d", version)
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func newTestService(t *testing.T, categories *stubCategoryRepo, brands *stubBrandRepo, cache Cache) Service {
	t.Helper()
	svc, err := NewService(categories, brands, cache, config.CatalogConfig{CacheTTL: time.Hour}, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func TestResolveMissingAncestorReturnsEmpty(t *testing.T) {
	t.Parallel()

	repo := &stubCategoryRepo{}
	svc := newTestService(t, repo, &stubBrandRepo{}, nil)

	resolved, ok := svc.Resolve(context.Background(), enums.CategoryLevelSecondary, ParentFilter{})
	if !ok {
		t.Fatal("expected ok for missing ancestor")
	}
	if len(resolved) != 0 {
		t.Fatalf("expected empty result, got %d", len(resolved))
	}
	if repo.listCalls != 0 {
		t.Fatalf("expected no repository call, got %d", repo.listCalls)
	}
}

func TestResolveDegradesOnRepositoryError(t *testing.T) {
	t.Parallel()

	repo := &stubCategoryRepo{listErr: fmt.Errorf("connection refused")}
	svc := newTestService(t, repo, &stubBrandRepo{}, nil)

	resolved, ok := svc.Resolve(context.Background(), enums.CategoryLevelPrimary, ParentFilter{})
	if ok {
		t.Fatal("expected ok=false on repository error")
	}
	if len(resolved) != 0 {
		t.Fatalf("expected empty result, got %d", len(resolved))
	}
}

func TestResolveBuildsURLsAndChildren(t *testing.T) {
	t.Parallel()

	primaryID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	childID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	repo := &stubCategoryRepo{listResult: []models.Category{{
		ID:    primaryID,
		Name:  "Boilers",
		Level: enums.CategoryLevelPrimary,
		Children: []models.Category{{
			ID:                childID,
			Name:              "Combi",
			Level:             enums.CategoryLevelSecondary,
			ParentID:          &primaryID,
			PrimaryCategoryID: &primaryID,
		}},
	}}}
	svc := newTestService(t, repo, &stubBrandRepo{}, nil)

	resolved, ok := svc.Resolve(context.Background(), enums.CategoryLevelPrimary, ParentFilter{})
	if !ok {
		t.Fatal("expected ok")
	}
	if len(resolved) != 1 {
		t.Fatalf("expected 1 category, got %d", len(resolved))
	}
	if want := "/products/c/boilers/c?p_id=" + primaryID.String(); resolved[0].URL != want {
		t.Errorf("url = %q, want %q", resolved[0].URL, want)
	}
	if len(resolved[0].Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(resolved[0].Children))
	}
	wantChild := "/products/c/boilers/combi/c?p_id=" + primaryID.String() + "&s_id=" + childID.String()
	if resolved[0].Children[0].URL != wantChild {
		t.Errorf("child url = %q, want %q", resolved[0].Children[0].URL, wantChild)
	}
}

func TestResolveCachesAndInvalidates(t *testing.T) {
	t.Parallel()

	repo := &stubCategoryRepo{listResult: []models.Category{{
		ID:    uuid.New(),
		Name:  "Boilers",
		Level: enums.CategoryLevelPrimary,
	}}}
	cache := newStubCache()
	svc := newTestService(t, repo, &stubBrandRepo{}, cache)
	ctx := context.Background()

	svc.Resolve(ctx, enums.CategoryLevelPrimary, ParentFilter{})
	svc.Resolve(ctx, enums.CategoryLevelPrimary, ParentFilter{})
	if repo.listCalls != 1 {
		t.Fatalf("expected second resolve to hit the cache, repo calls = %d", repo.listCalls)
	}

	// A mutation bumps the cache generation, so the next resolve goes back to
	// the database.
	if _, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Plumbing", Level: enums.CategoryLevelPrimary}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	svc.Resolve(ctx, enums.CategoryLevelPrimary, ParentFilter{})
	if repo.listCalls != 2 {
		t.Fatalf("expected resolve after invalidation to miss the cache, repo calls = %d", repo.listCalls)
	}
}

func TestCreateCategoryValidatesParent(t *testing.T) {
	t.Parallel()

	primaryID := uuid.New()
	repo := &stubCategoryRepo{byID: map[uuid.UUID]*models.Category{
		primaryID: {ID: primaryID, Name: "Boilers", Level: enums.CategoryLevelPrimary},
	}}
	svc := newTestService(t, repo, &stubBrandRepo{}, nil)
	ctx := context.Background()

	// Secondary without a parent is rejected before any persistence call.
	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Combi", Level: enums.CategoryLevelSecondary})
	if coded := errors.As(err); coded == nil || coded.Code() != errors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	// A primary parent cannot parent a tertiary.
	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Gas", Level: enums.CategoryLevelTertiary, ParentID: &primaryID})
	if coded := errors.As(err); coded == nil || coded.Code() != errors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Valid secondary under the primary denormalizes the primary id.
	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Combi", Level: enums.CategoryLevelSecondary, ParentID: &primaryID})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if created.PrimaryCategoryID == nil || *created.PrimaryCategoryID != primaryID {
		t.Fatalf("expected primary ancestor id %s, got %v", primaryID, created.PrimaryCategoryID)
	}
	if created.ParentID == nil || *created.ParentID != primaryID {
		t.Fatalf("expected parent id %s, got %v", primaryID, created.ParentID)
	}
}

func TestCreateCategoryUnknownParent(t *testing.T) {
	t.Parallel()

	repo := &stubCategoryRepo{byID: map[uuid.UUID]*models.Category{}}
	svc := newTestService(t, repo, &stubBrandRepo{}, nil)

	missing := uuid.New()
	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{
		Name: "Combi", Level: enums.CategoryLevelSecondary, ParentID: &missing,
	})
	if coded := errors.As(err); coded == nil || coded.Code() != errors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
