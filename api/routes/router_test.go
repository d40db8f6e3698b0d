package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield-supplies/storefront-backend/api/controllers"
	cartsvc "github.com/oakfield-supplies/storefront-backend/internal/cart"
	"github.com/oakfield-supplies/storefront-backend/internal/catalog"
	"github.com/oakfield-supplies/storefront-backend/internal/orders"
	"github.com/oakfield-supplies/storefront-backend/internal/products"
	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/db/models"
	"github.com/oakfield-supplies/storefront-backend/pkg/enums"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) Resolve(context.Context, enums.CategoryLevel, catalog.ParentFilter) ([]catalog.ResolvedCategory, bool) {
	return []catalog.ResolvedCategory{}, true
}

func (stubCatalogService) GetCategory(context.Context, uuid.UUID) (*models.Category, error) {
	return nil, nil
}

func (stubCatalogService) CreateCategory(context.Context, catalog.CreateCategoryInput) (*models.Category, error) {
	return &models.Category{ID: uuid.New(), Name: "Boilers", Level: enums.CategoryLevelPrimary}, nil
}

func (stubCatalogService) UpdateCategory(context.Context, uuid.UUID, catalog.UpdateCategoryInput) (*models.Category, error) {
	return &models.Category{ID: uuid.New(), Name: "Boilers", Level: enums.CategoryLevelPrimary}, nil
}

func (stubCatalogService) DeleteCategory(context.Context, uuid.UUID) error {
	return nil
}

func (stubCatalogService) ListBrands(context.Context) ([]models.Brand, error) {
	return nil, nil
}

func (stubCatalogService) CreateBrand(context.Context, catalog.CreateBrandInput) (*models.Brand, error) {
	return &models.Brand{ID: uuid.New(), Name: "Ideal"}, nil
}

func (stubCatalogService) UpdateBrand(context.Context, uuid.UUID, catalog.UpdateBrandInput) (*models.Brand, error) {
	return &models.Brand{ID: uuid.New(), Name: "Ideal"}, nil
}

func (stubCatalogService) DeleteBrand(context.Context, uuid.UUID) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) List(context.Context, products.ListFilter, pagination.Params) (*products.Page, error) {
	return &products.Page{}, nil
}

func (stubProductService) GetByInventoryID(context.Context, uuid.UUID) (*models.InventoryItem, error) {
	return &models.InventoryItem{ID: uuid.New()}, nil
}

func (stubProductService) CreateProduct(context.Context, products.ProductInput) (*models.Product, error) {
	return &models.Product{ID: uuid.New()}, nil
}

func (stubProductService) UpdateProduct(context.Context, uuid.UUID, products.ProductInput) (*models.Product, error) {
	return &models.Product{ID: uuid.New()}, nil
}

func (stubProductService) DeleteProduct(context.Context, uuid.UUID) error {
	return nil
}

func (stubProductService) UpsertInventory(context.Context, products.InventoryInput) (*models.InventoryItem, error) {
	return &models.InventoryItem{ID: uuid.New()}, nil
}

type stubCartService struct {
	lastOwner cartsvc.Owner
}

func (s *stubCartService) GetCart(ctx context.Context, owner cartsvc.Owner) (*models.Cart, error) {
	s.lastOwner = owner
	return &models.Cart{ID: uuid.New(), Status: enums.CartStatusActive}, nil
}

func (s *stubCartService) AddItem(ctx context.Context, owner cartsvc.Owner, input cartsvc.AddItemInput) (*models.Cart, error) {
	s.lastOwner = owner
	return &models.Cart{ID: uuid.New(), Status: enums.CartStatusActive}, nil
}

func (s *stubCartService) UpdateItemQuantity(ctx context.Context, owner cartsvc.Owner, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	return &models.Cart{ID: uuid.New(), Status: enums.CartStatusActive}, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, owner cartsvc.Owner, itemID uuid.UUID) (*models.Cart, error) {
	return &models.Cart{ID: uuid.New(), Status: enums.CartStatusActive}, nil
}

func (s *stubCartService) PurgeAbandoned(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

type stubOrderService struct{}

func (stubOrderService) CreateFromCart(context.Context, cartsvc.Owner) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}, nil
}

func (stubOrderService) GetOrder(context.Context, uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}, nil
}

func (stubOrderService) ListForOwner(context.Context, cartsvc.Owner, pagination.Params) (*orders.Page, error) {
	return &orders.Page{}, nil
}

func (stubOrderService) ListAll(context.Context, pagination.Params) (*orders.Page, error) {
	return &orders.Page{}, nil
}

func (stubOrderService) UpdateStatus(context.Context, uuid.UUID, enums.OrderStatus) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPaid}, nil
}

func testRouter(t *testing.T, carts *stubCartService) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Pricing.CurrencySymbol = "£"

	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		PingTargets: map[string]controllers.Pinger{"database": stubPinger{}},
		Catalog:     stubCatalogService{},
		Products:    stubProductService{},
		Carts:       carts,
		Orders:      stubOrderService{},
		Registry:    prometheus.NewRegistry(),
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t, &stubCartService{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-Storefront-Env"))
}

func TestRouterResolvesCategories(t *testing.T) {
	router := testRouter(t, &stubCartService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?level=primary", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data struct {
			Success    bool              `json:"success"`
			Categories []json.RawMessage `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Data.Success)
	assert.Empty(t, envelope.Data.Categories)
}

func TestRouterCartOwnerFromSessionHeader(t *testing.T) {
	carts := &stubCartService{}
	router := testRouter(t, carts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, carts.lastOwner.SessionID)
	assert.Equal(t, "sess-42", *carts.lastOwner.SessionID)
}

func TestRouterCheckoutRequiresPost(t *testing.T) {
	router := testRouter(t, &stubCartService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestRouterServesMetrics(t *testing.T) {
	router := testRouter(t, &stubCartService{})

	// Drive one request through the metrics middleware first.
	warm := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	router.ServeHTTP(httptest.NewRecorder(), warm)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "http_request_duration_seconds") ||
		strings.Contains(string(body), "http_requests_total"))
}
