package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	_ "github.com/marketsaas/marketsaas/docs"
	"github.com/marketsaas/marketsaas/internal/handlers/affiliations"
	"github.com/marketsaas/marketsaas/internal/handlers/auth"
	"github.com/marketsaas/marketsaas/internal/handlers/ledger"
	"github.com/marketsaas/marketsaas/internal/handlers/metrics"
	"github.com/marketsaas/marketsaas/internal/handlers/notifications"
	"github.com/marketsaas/marketsaas/internal/handlers/products"
	"github.com/marketsaas/marketsaas/internal/handlers/profile"
	"github.com/marketsaas/marketsaas/internal/service"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		AuthService:         auth.NewMockService(ctrl),
		ProfileService:      profile.NewMockService(ctrl),
		ProductService:      products.NewMockService(ctrl),
		AffiliationService:  affiliations.NewMockService(ctrl),
		NotificationService: notifications.NewMockService(ctrl),
		MetricsService:      metrics.NewMockService(ctrl),
		LedgerService:       ledger.NewMockService(ctrl),
	}

	h := New(services)
	assert.NotNil(t, h, "Handlers should not be nil")
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockProfileHandler := NewMockProfileHandler(ctrl)
	mockProductHandler := NewMockProductHandler(ctrl)
	mockAffiliationHandler := NewMockAffiliationHandler(ctrl)
	mockNotificationHandler := NewMockNotificationHandler(ctrl)
	mockMetricsHandler := NewMockMetricsHandler(ctrl)
	mockLedgerHandler := NewMockLedgerHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockProfileHandler.EXPECT().GetProfile(gomock.Any(), gomock.Any()).AnyTimes()
	mockProfileHandler.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).AnyTimes()
	mockProductHandler.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).AnyTimes()
	mockProductHandler.EXPECT().GetOwnProducts(gomock.Any(), gomock.Any()).AnyTimes()
	mockProductHandler.EXPECT().GetMarketplace(gomock.Any(), gomock.Any()).AnyTimes()
	mockAffiliationHandler.EXPECT().RequestAffiliation(gomock.Any(), gomock.Any()).AnyTimes()
	mockAffiliationHandler.EXPECT().GetAffiliations(gomock.Any(), gomock.Any()).AnyTimes()
	mockNotificationHandler.EXPECT().GetNotifications(gomock.Any(), gomock.Any()).AnyTimes()
	mockNotificationHandler.EXPECT().GetUnreadCount(gomock.Any(), gomock.Any()).AnyTimes()
	mockMetricsHandler.EXPECT().GetMetrics(gomock.Any(), gomock.Any()).AnyTimes()
	mockLedgerHandler.EXPECT().GetSales(gomock.Any(), gomock.Any()).AnyTimes()
	mockLedgerHandler.EXPECT().GetTransactions(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		AuthHandler:         mockAuthHandler,
		ProfileHandler:      mockProfileHandler,
		ProductHandler:      mockProductHandler,
		AffiliationHandler:  mockAffiliationHandler,
		NotificationHandler: mockNotificationHandler,
		MetricsHandler:      mockMetricsHandler,
		LedgerHandler:       mockLedgerHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/user/register", http.StatusOK},
		{"POST", "/api/user/login", http.StatusOK},
		{"GET", "/api/profile", http.StatusUnauthorized},
		{"POST", "/api/products", http.StatusUnauthorized},
		{"GET", "/api/products/marketplace", http.StatusUnauthorized},
		{"POST", "/api/affiliations", http.StatusUnauthorized},
		{"GET", "/api/notifications", http.StatusUnauthorized},
		{"GET", "/api/metrics", http.StatusUnauthorized},
		{"GET", "/api/sales", http.StatusUnauthorized},
		{"GET", "/api/transactions", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
