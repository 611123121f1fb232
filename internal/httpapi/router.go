package httpapi

import (
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Users    user.Service
	Products product.Service
	Orders   order.Service
	Tokens   auth.TokenManager
	Stats    *metrics.Metrics
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.NewRateLimiter().Middleware)

	requireAuth := middleware.Auth(deps.Tokens, deps.Stats)

	userHandler := NewUserHandler(deps.Users, deps.Tokens)
	productHandler := NewProductHandler(deps.Products)
	orderHandler := NewOrderHandler(deps.Orders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.GetWithPurchases)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/category/{category}", productHandler.ListByCategory)
		r.Get("/popular/top-5", productHandler.ListPopular)
		r.Get("/{id}", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", productHandler.Create)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", orderHandler.Place)
		r.Get("/", orderHandler.ListMine)
		r.Get("/completed", orderHandler.ListCompleted)
		r.Get("/{id}", orderHandler.Get)
	})

	return r
}
