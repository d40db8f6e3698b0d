package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakfield-supplies/storefront-backend/api/controllers"
	"github.com/oakfield-supplies/storefront-backend/api/middleware"
	cartsvc "github.com/oakfield-supplies/storefront-backend/internal/cart"
	"github.com/oakfield-supplies/storefront-backend/internal/catalog"
	"github.com/oakfield-supplies/storefront-backend/internal/orders"
	"github.com/oakfield-supplies/storefront-backend/internal/products"
	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
	"github.com/oakfield-supplies/storefront-backend/pkg/metrics"
)

// Deps bundles everything the router needs. Ping targets feed the readiness
// probe; a nil Registry disables the /metrics endpoint.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	PingTargets map[string]controllers.Pinger

	Catalog  catalog.Service
	Products products.Service
	Carts    cartsvc.Service
	Orders   orders.Service

	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	pricing := cfg.Pricing

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(deps.Registry)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.PingTargets))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.CategoriesResolve(deps.Catalog, logg))
		r.Get("/brands", controllers.BrandsList(deps.Catalog, logg))
		r.Get("/products", controllers.ProductsList(deps.Products, pricing, logg))
		r.Get("/products/{inventoryID}", controllers.ProductDetail(deps.Products, pricing, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartOwner(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Carts, pricing, logg))
				r.Post("/items", controllers.CartAddItem(deps.Carts, pricing, logg))
				r.Patch("/items/{itemID}", controllers.CartUpdateItem(deps.Carts, pricing, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(deps.Carts, pricing, logg))
			})

			r.Post("/checkout", controllers.CheckoutCreate(deps.Orders, pricing, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.Orders, pricing, logg))
				r.Get("/{orderID}", controllers.OrderGet(deps.Orders, pricing, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(deps.Catalog, logg))
			r.Patch("/{categoryID}", controllers.AdminCategoryUpdate(deps.Catalog, logg))
			r.Delete("/{categoryID}", controllers.AdminCategoryDelete(deps.Catalog, logg))
		})
		r.Route("/brands", func(r chi.Router) {
			r.Post("/", controllers.AdminBrandCreate(deps.Catalog, logg))
			r.Patch("/{brandID}", controllers.AdminBrandUpdate(deps.Catalog, logg))
			r.Delete("/{brandID}", controllers.AdminBrandDelete(deps.Catalog, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(deps.Products, pricing, logg))
			r.Put("/{productID}", controllers.AdminProductUpdate(deps.Products, pricing, logg))
			r.Delete("/{productID}", controllers.AdminProductDelete(deps.Products, logg))
		})
		r.Put("/inventory", controllers.AdminInventoryUpsert(deps.Products, pricing, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.Orders, pricing, logg))
			r.Patch("/{orderID}/status", controllers.AdminOrderUpdateStatus(deps.Orders, pricing, logg))
		})
	})

	return r
}
