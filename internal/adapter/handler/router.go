package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/service"
)

// Router wires every resource handler into the HTTP surface.
type Router struct {
	catalog      *service.CatalogService
	cart         *service.CartService
	orders       *service.OrderService
	reviews      *service.ReviewService
	distributors *service.DistributorService
	verifier     signatureVerifier

	jwtSecret      string
	allowedOrigins []string
	logger         *zap.Logger
}

func NewRouter(
	catalog *service.CatalogService,
	cart *service.CartService,
	orders *service.OrderService,
	reviews *service.ReviewService,
	distributors *service.DistributorService,
	verifier signatureVerifier,
	jwtSecret string,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		catalog:        catalog,
		cart:           cart,
		orders:         orders,
		reviews:        reviews,
		distributors:   distributors,
		verifier:       verifier,
		jwtSecret:      jwtSecret,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

func (rt *Router) Setup() http.Handler {
	validate := validator.New()

	catalogH := NewCatalogHandler(rt.catalog, validate, rt.logger)
	cartH := NewCartHandler(rt.cart, validate, rt.logger)
	orderH := NewOrderHandler(rt.orders, validate, rt.logger)
	reviewH := NewReviewHandler(rt.reviews, validate, rt.logger)
	distributorH := NewDistributorHandler(rt.distributors, validate, rt.logger)
	webhookH := NewWebhookHandler(rt.orders, rt.verifier, rt.logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		// Public catalog.
		r.Get("/products", catalogH.ListProducts)
		r.Get("/products/{productID}", catalogH.GetProduct)
		r.Get("/products/{productID}/reviews", reviewH.ListByProduct)
		r.Get("/categories", catalogH.ListCategories)
		r.Get("/brands", catalogH.ListBrands)

		// Provider callbacks authenticate by signature, not session.
		r.Post("/webhooks/payment", webhookH.HandleEvent)

		// Distributor applications are open to anonymous visitors.
		r.Post("/distributors", distributorH.Apply)

		// Session-scoped surface.
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(rt.jwtSecret))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartH.GetCart)
				r.Post("/items", cartH.AddItem)
				r.Put("/items/{productID}", cartH.SetItemQuantity)
				r.Delete("/items/{productID}", cartH.RemoveItem)
				r.Delete("/", cartH.Clear)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", orderH.PlaceOrder)
				r.Get("/", orderH.ListMyOrders)
				r.Get("/{orderID}", orderH.GetOrder)
				r.Post("/{orderID}/sync-payment", orderH.SyncPayment)
			})

			r.Post("/products/{productID}/reviews", reviewH.AddReview)
			r.Put("/reviews/{reviewID}", reviewH.UpdateReview)
			r.Delete("/reviews/{reviewID}", reviewH.DeleteReview)
		})

		// Admin surface.
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(rt.jwtSecret))
			r.Use(RequireAdmin)

			r.Post("/products", catalogH.CreateProduct)
			r.Put("/products/{productID}", catalogH.UpdateProduct)
			r.Delete("/products/{productID}", catalogH.DeleteProduct)

			r.Post("/categories", catalogH.CreateCategory)
			r.Delete("/categories/{categoryID}", catalogH.DeleteCategory)

			r.Post("/brands", catalogH.CreateBrand)
			r.Delete("/brands/{brandID}", catalogH.DeleteBrand)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/orders", orderH.ListAllOrders)
				r.Put("/orders/{orderID}/status", orderH.UpdateOrderStatus)
				r.Get("/analytics/summary", orderH.SalesSummary)
				r.Get("/analytics/top-products", orderH.TopProducts)
				r.Get("/distributors", distributorH.List)
				r.Put("/distributors/{applicationID}/status", distributorH.SetStatus)
				r.Delete("/cache", catalogH.ClearCache)
			})
		})
	})

	return router
}
