package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tavola/internal/auth"
	"tavola/internal/cart"
	"tavola/internal/catalog"
	"tavola/internal/config"
	"tavola/internal/metrics"
	"tavola/internal/order"
)

type Server struct {
	Users    auth.Store
	Recovery *auth.RecoveryService
	Delivery auth.DeliveryChannel
	Tokens   *auth.TokenIssuer
	Hasher   auth.PasswordHasher
	Catalog  catalog.Store
	Carts    *cart.Store
	Orders   order.Store
	Metrics  *metrics.Collector
	Config   config.Config
}

func NewServer(
	cfg config.Config,
	users auth.Store,
	recovery *auth.RecoveryService,
	delivery auth.DeliveryChannel,
	tokens *auth.TokenIssuer,
	hasher auth.PasswordHasher,
	catalogStore catalog.Store,
	carts *cart.Store,
	orders order.Store,
	collector *metrics.Collector,
) *Server {
	return &Server{
		Users:    users,
		Recovery: recovery,
		Delivery: delivery,
		Tokens:   tokens,
		Hasher:   hasher,
		Catalog:  catalogStore,
		Carts:    carts,
		Orders:   orders,
		Metrics:  collector,
		Config:   cfg,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	formatter := &middleware.DefaultLogFormatter{
		Logger:  log.New(log.Writer(), "", log.Flags()),
		NoColor: true,
	}
	r.Use(middleware.RequestLogger(formatter))
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)

	r.Post("/api/forgot-password", s.handleForgotPassword)
	r.Post("/api/verify-identity", s.handleVerifyIdentity)
	r.Post("/api/reset-password", s.handleResetPassword)

	r.Get("/api/categories", s.handleListCategories)
	r.Get("/api/categories/{id}", s.handleGetCategory)
	r.Get("/api/items", s.handleListItems)
	r.Get("/api/items/{id}", s.handleGetItem)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireSession)

		pr.Get("/api/auth/me", s.handleMe)

		pr.Get("/api/cart", s.handleGetCart)
		pr.Post("/api/cart/items", s.handleAddCartItem)
		pr.Put("/api/cart/items/{itemId}", s.handleUpdateCartItem)
		pr.Delete("/api/cart/items/{itemId}", s.handleRemoveCartItem)
		pr.Delete("/api/cart", s.handleClearCart)

		pr.Post("/api/orders", s.handlePlaceOrder)
		pr.Get("/api/orders", s.handleListOrders)
		pr.Get("/api/orders/{id}", s.handleGetOrder)

		pr.Group(func(ar chi.Router) {
			ar.Use(s.requireAdmin)

			ar.Post("/api/categories", s.handleCreateCategory)
			ar.Put("/api/categories/{id}", s.handleUpdateCategory)
			ar.Delete("/api/categories/{id}", s.handleDeleteCategory)
			ar.Post("/api/items", s.handleCreateItem)
			ar.Put("/api/items/{id}", s.handleUpdateItem)
			ar.Delete("/api/items/{id}", s.handleDeleteItem)

			ar.Get("/api/admin/orders", s.handleListAllOrders)
			ar.Put("/api/admin/orders/{id}/status", s.handleUpdateOrderStatus)
		})
	})

	return r
}
