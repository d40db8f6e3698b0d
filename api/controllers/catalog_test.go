package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/oakfield-supplies/storefront-backend/internal/catalog"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
)

type stubCatalogService struct {
	resolved   []catalog.ResolvedCategory
	resolveOK  bool
	lastLevel  enums.CategoryLevel
	lastFilter catalog.ParentFilter
	brands     []models.Brand
	err        error
}

func (s *stubCatalogService) Resolve(ctx context.Context, level enums.CategoryLevel, filter catalog.ParentFilter) ([]catalog.ResolvedCategory, bool) {
	s.lastLevel = level
	s.lastFilter = filter
	return s.resolved, s.resolveOK
}

func (s *stubCatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return nil, s.err
}

func (s *stubCatalogService) CreateCategory(ctx context.Context, input catalog.CreateCategoryInput) (*models.Category, error) {
	return nil, s.err
}

func (s *stubCatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input catalog.UpdateCategoryInput) (*models.Category, error) {
	return nil, s.err
}

func (s *stubCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubCatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.brands, s.err
}

func (s *stubCatalogService) CreateBrand(ctx context.Context, input catalog.CreateBrandInput) (*models.Brand, error) {
	return nil, s.err
}

func (s *stubCatalogService) UpdateBrand(ctx context.Context, id uuid.UUID, input catalog.UpdateBrandInput) (*models.Brand, error) {
	return nil, s.err
}

func (s *stubCatalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func TestCategoriesResolveSuccess(t *testing.T) {
	primaryID := uuid.New()
	svc := &stubCatalogService{
		resolved: []catalog.ResolvedCategory{
			{ID: uuid.New(), Name: "Combi Boilers", Level: enums.CategoryLevelSecondary},
		},
		resolveOK: true,
	}
	handler := CategoriesResolve(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?level=secondary&p_id="+primaryID.String(), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastLevel != enums.CategoryLevelSecondary {
		t.Fatalf("unexpected level: %s", svc.lastLevel)
	}
	if svc.lastFilter.PrimaryID == nil || *svc.lastFilter.PrimaryID != primaryID {
		t.Fatalf("primary filter not forwarded")
	}

	var envelope struct {
		Data resolveResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Success {
		t.Fatalf("expected success flag")
	}
	if len(envelope.Data.Categories) != 1 || envelope.Data.Categories[0].Name != "Combi Boilers" {
		t.Fatalf("unexpected categories: %+v", envelope.Data.Categories)
	}
}

func TestCategoriesResolveRejectsBadLevel(t *testing.T) {
	handler := CategoriesResolve(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?level=quinary", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCategoriesResolveDegradedStillRendersEmpty(t *testing.T) {
	handler := CategoriesResolve(&stubCatalogService{resolved: nil, resolveOK: false}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?level=primary", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data resolveResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Success {
		t.Fatalf("expected degraded flag")
	}
	if envelope.Data.Categories == nil || len(envelope.Data.Categories) != 0 {
		t.Fatalf("expected empty category list, got %+v", envelope.Data.Categories)
	}
}

func TestBrandsListSuccess(t *testing.T) {
	svc := &stubCatalogService{brands: []models.Brand{{ID: uuid.New(), Name: "Worcester Bosch"}}}
	handler := BrandsList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []brandResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected one brand, got %d", len(envelope.Data))
	}
	if envelope.Data[0].Slug != "worcester-bosch" {
		t.Fatalf("unexpected slug: %s", envelope.Data[0].Slug)
	}
}
