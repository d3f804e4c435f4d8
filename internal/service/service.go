package service

import (
	"github.com/marketsaas/marketsaas/internal/handlers/affiliations"
	authhandlers "github.com/marketsaas/marketsaas/internal/handlers/auth"
	"github.com/marketsaas/marketsaas/internal/handlers/ledger"
	"github.com/marketsaas/marketsaas/internal/handlers/metrics"
	"github.com/marketsaas/marketsaas/internal/handlers/notifications"
	"github.com/marketsaas/marketsaas/internal/handlers/products"
	"github.com/marketsaas/marketsaas/internal/handlers/profile"

	pkgauth "github.com/marketsaas/marketsaas/pkg/auth"

	"github.com/marketsaas/marketsaas/internal/config"
	"github.com/marketsaas/marketsaas/internal/repo"
	"github.com/marketsaas/marketsaas/internal/service/affiliationservice"
	"github.com/marketsaas/marketsaas/internal/service/authservice"
	"github.com/marketsaas/marketsaas/internal/service/ledgerservice"
	"github.com/marketsaas/marketsaas/internal/service/metricsservice"
	"github.com/marketsaas/marketsaas/internal/service/notificationservice"
	"github.com/marketsaas/marketsaas/internal/service/productservice"
	"github.com/marketsaas/marketsaas/internal/service/profileservice"
)

type Services struct {
	AuthService         authhandlers.Service
	ProfileService      profile.Service
	ProductService      products.Service
	AffiliationService  affiliations.Service
	NotificationService notifications.Service
	MetricsService      metrics.Service
	LedgerService       ledger.Service

	// Notifications consumed by the settlement poller.
	Notifications *notificationservice.Service
}

func New(cfg *config.Config, repos *repo.Repositories) *Services {
	notificationService := notificationservice.New(repos.Notifications)
	authService := authservice.New(repos.Profiles, &pkgauth.HashService{}, &pkgauth.JWTService{})
	profileService := profileservice.New(repos.Profiles)
	productService := productservice.New(repos.Products)
	affiliationService := affiliationservice.New(repos.Affiliations, repos.Products, repos.Profiles, notificationService)
	metricsService := metricsservice.New(repos.Sales, repos.Transactions, repos.Products, cfg.HoldbackDays)
	ledgerService := ledgerservice.New(repos.Sales, repos.Transactions)

	return &Services{
		AuthService:         authService,
		ProfileService:      profileService,
		ProductService:      productService,
		AffiliationService:  affiliationService,
		NotificationService: notificationService,
		MetricsService:      metricsService,
		LedgerService:       ledgerService,
		Notifications:       notificationService,
	}
}
