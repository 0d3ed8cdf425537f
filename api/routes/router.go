package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atelier-backend/api/controllers"
	"atelier-backend/api/middleware"
	"atelier-backend/internal/auth"
	cartsvc "atelier-backend/internal/cart"
	checkoutsvc "atelier-backend/internal/checkout"
	ordersvc "atelier-backend/internal/orders"
	productsvc "atelier-backend/internal/products"
	subscribersvc "atelier-backend/internal/subscribers"
	usersvc "atelier-backend/internal/users"
	"atelier-backend/pkg/auth/session"
	"atelier-backend/pkg/config"
	"atelier-backend/pkg/db"
	"atelier-backend/pkg/enums"
	"atelier-backend/pkg/logger"
	"atelier-backend/pkg/metrics"
	"atelier-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth        auth.Service
	Products    productsvc.Service
	Cart        cartsvc.Service
	Checkout    checkoutsvc.Service
	Orders      ordersvc.Service
	Users       usersvc.AdminService
	Subscribers subscribersvc.Service
}

// NewRouter assembles the full HTTP surface: storefront, account, checkout
// and the admin back office.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(httpMetrics),
	)

	requireAuth := middleware.Auth(cfg.JWT, sessions, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, sessions, logg)
	requireAdmin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
			r.Get("/me", controllers.AuthMe(svcs.Auth, logg))
			r.Patch("/me", controllers.AuthUpdateProfile(svcs.Auth, logg))
			r.Post("/change-password", controllers.AuthChangePassword(svcs.Auth, logg))
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svcs.Products, logg))
		r.Get("/best-seller", controllers.ProductBestSeller(svcs.Products, logg))
		r.Get("/new-arrivals", controllers.ProductNewArrivals(svcs.Products, logg))
		r.Get("/{productId}", controllers.ProductGet(svcs.Products, logg))
		r.Get("/{productId}/similar", controllers.ProductSimilar(svcs.Products, logg))
	})

	r.Route("/api/carts", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", controllers.CartGet(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Patch("/items", controllers.CartUpdateItem(svcs.Cart, logg))
			r.Delete("/items", controllers.CartRemoveItem(svcs.Cart, logg))
		})

		r.With(requireAuth).Post("/merge", controllers.CartMerge(svcs.Cart, logg))
	})

	r.Route("/api/checkout", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", controllers.CheckoutCreate(svcs.Checkout, logg))
		r.Get("/{checkoutId}", controllers.CheckoutGet(svcs.Checkout, logg))
		r.Put("/{checkoutId}/pay", controllers.CheckoutPay(svcs.Checkout, logg))
		r.Post("/{checkoutId}/finalize", controllers.CheckoutFinalize(svcs.Checkout, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.OrderListMine(svcs.Orders, logg))
		r.Get("/{orderId}", controllers.OrderGetMine(svcs.Orders, logg))
	})

	r.Post("/api/subscribers", controllers.SubscriberSignup(svcs.Subscribers, logg))

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)

		r.Get("/summary", controllers.AdminDashboardSummary(svcs.Orders, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(svcs.Products, logg))
			r.Post("/", controllers.AdminProductCreate(svcs.Products, logg))
			r.Get("/{productId}", controllers.ProductGet(svcs.Products, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(svcs.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(svcs.Orders, logg))
			r.Get("/revenue", controllers.AdminOrderRevenue(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderGet(svcs.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(svcs.Orders, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(svcs.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(svcs.Users, logg))
			r.Post("/", controllers.AdminUserCreate(svcs.Users, logg))
			r.Get("/{userId}", controllers.AdminUserGet(svcs.Users, logg))
			r.Patch("/{userId}", controllers.AdminUserUpdate(svcs.Users, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(svcs.Users, logg))
		})

		r.Get("/subscribers", controllers.AdminSubscriberList(svcs.Subscribers, logg))
	})

	return r
}
