package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/marketsaas/marketsaas/docs"
	affiliationhandlers "github.com/marketsaas/marketsaas/internal/handlers/affiliations"
	authhandlers "github.com/marketsaas/marketsaas/internal/handlers/auth"
	ledgerhandlers "github.com/marketsaas/marketsaas/internal/handlers/ledger"
	metricshandlers "github.com/marketsaas/marketsaas/internal/handlers/metrics"
	notificationhandlers "github.com/marketsaas/marketsaas/internal/handlers/notifications"
	producthandlers "github.com/marketsaas/marketsaas/internal/handlers/products"
	profilehandlers "github.com/marketsaas/marketsaas/internal/handlers/profile"
	"github.com/marketsaas/marketsaas/internal/service"
	"github.com/marketsaas/marketsaas/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type ProfileHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
}

type ProductHandler interface {
	CreateProduct(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	GetOwnProducts(w http.ResponseWriter, r *http.Request)
	GetMarketplace(w http.ResponseWriter, r *http.Request)
	UpdateProduct(w http.ResponseWriter, r *http.Request)
	DeleteProduct(w http.ResponseWriter, r *http.Request)
}

type AffiliationHandler interface {
	RequestAffiliation(w http.ResponseWriter, r *http.Request)
	SetAffiliationStatus(w http.ResponseWriter, r *http.Request)
	GetAffiliations(w http.ResponseWriter, r *http.Request)
}

type NotificationHandler interface {
	GetNotifications(w http.ResponseWriter, r *http.Request)
	GetUnreadCount(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	Clear(w http.ResponseWriter, r *http.Request)
}

type MetricsHandler interface {
	GetMetrics(w http.ResponseWriter, r *http.Request)
}

type LedgerHandler interface {
	GetSales(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler         AuthHandler
	ProfileHandler      ProfileHandler
	ProductHandler      ProductHandler
	AffiliationHandler  AffiliationHandler
	NotificationHandler NotificationHandler
	MetricsHandler      MetricsHandler
	LedgerHandler       LedgerHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService),
		ProfileHandler:      profilehandlers.New(s.ProfileService),
		ProductHandler:      producthandlers.New(s.ProductService),
		AffiliationHandler:  affiliationhandlers.New(s.AffiliationService),
		NotificationHandler: notificationhandlers.New(s.NotificationService),
		MetricsHandler:      metricshandlers.New(s.MetricsService),
		LedgerHandler:       ledgerhandlers.New(s.LedgerService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", h.ProfileHandler.GetProfile)
				r.Patch("/", h.ProfileHandler.UpdateProfile)
			})
			r.Route("/products", func(r chi.Router) {
				r.Post("/", h.ProductHandler.CreateProduct)
				r.Get("/", h.ProductHandler.GetOwnProducts)
				r.Get("/marketplace", h.ProductHandler.GetMarketplace)
				r.Get("/{id}", h.ProductHandler.GetProduct)
				r.Put("/{id}", h.ProductHandler.UpdateProduct)
				r.Delete("/{id}", h.ProductHandler.DeleteProduct)
			})
			r.Route("/affiliations", func(r chi.Router) {
				r.Post("/", h.AffiliationHandler.RequestAffiliation)
				r.Get("/", h.AffiliationHandler.GetAffiliations)
				r.Patch("/{id}/status", h.AffiliationHandler.SetAffiliationStatus)
			})
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.NotificationHandler.GetNotifications)
				r.Get("/unread", h.NotificationHandler.GetUnreadCount)
				r.Patch("/{id}/read", h.NotificationHandler.MarkRead)
				r.Patch("/read-all", h.NotificationHandler.MarkAllRead)
				r.Delete("/", h.NotificationHandler.Clear)
			})
			r.Get("/metrics", h.MetricsHandler.GetMetrics)
			r.Get("/sales", h.LedgerHandler.GetSales)
			r.Get("/transactions", h.LedgerHandler.GetTransactions)
		})
	})

	return r
}
