package settlement

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/config"
	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/pg"
	"github.com/marketsaas/marketsaas/pkg/clients"
)

func NewMock(t *testing.T) (*Service, *MockSaleRepo, *MockTransactionRepo, *MockNotifier, *pg.MockTXManager, *clients.MockHTTPClientI) {
	cfg := &config.Config{ProcessorAddress: "http://localhost:8081"}
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	saleRepo := NewMockSaleRepo(ctrl)
	transactionRepo := NewMockTransactionRepo(ctrl)
	notifier := NewMockNotifier(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	client := clients.NewMockHTTPClientI(ctrl)
	service := New(cfg, saleRepo, transactionRepo, notifier, txManager, client)
	return service, saleRepo, transactionRepo, notifier, txManager, client
}

func pendingSale(id string) domain.Sale {
	return domain.Sale{
		ID:               id,
		ProductID:        "prod-1",
		ProducerID:       "producer-1",
		AffiliateID:      "affiliate-1",
		CustomerEmail:    "buyer@example.com",
		Amount:           decimal.NewFromInt(100),
		CommissionAmount: decimal.NewFromInt(30),
		Status:           domain.SalePending,
	}
}

func passthroughTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
}

func TestService_Start(t *testing.T) {
	service, _, _, _, _, _ := NewMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestService_processSales(t *testing.T) {
	tests := []struct {
		name          string
		mockFindSales func(ctx context.Context, limit uint32) ([]domain.Sale, error)
		mockAddTask   func(ctx context.Context, task Task) error
		saleCount     int
	}{
		{
			name: "queues every pending sale",
			mockFindSales: func(ctx context.Context, limit uint32) ([]domain.Sale, error) {
				return []domain.Sale{pendingSale("sale-1"), pendingSale("sale-2")}, nil
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return nil
			},
			saleCount: 2,
		},
		{
			name: "fetch failure skips the cycle",
			mockFindSales: func(ctx context.Context, limit uint32) ([]domain.Sale, error) {
				return nil, fmt.Errorf("failed to fetch sales")
			},
			saleCount: 0,
		},
		{
			name: "worker pool refusal releases the in-flight guard",
			mockFindSales: func(ctx context.Context, limit uint32) ([]domain.Sale, error) {
				return []domain.Sale{pendingSale("sale-3")}, nil
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return fmt.Errorf("failed to add task to worker pool")
			},
			saleCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			saleRepo := NewMockSaleRepo(ctrl)
			workerPool := NewMockWorkerPoolI(ctrl)

			saleRepo.EXPECT().
				FindForSettlement(gomock.Any(), gomock.Any()).
				DoAndReturn(tt.mockFindSales).
				Times(1)
			for i := 0; i < tt.saleCount; i++ {
				workerPool.EXPECT().
					AddTask(gomock.Any(), gomock.Any()).
					DoAndReturn(tt.mockAddTask).
					AnyTimes()
			}

			service := &Service{
				saleRepo:   saleRepo,
				workerPool: workerPool,
				limit:      10,
			}

			zap.ReplaceGlobals(zap.NewExample())

			service.processSales(context.Background())
		})
	}
}

func TestService_handleSale(t *testing.T) {
	testCases := []struct {
		name          string
		sale          domain.Sale
		httpStatus    int
		responseBody  string
		settled       bool
		expectedError string
		cancelContext bool
		retryError    error
		retryHeaders  http.Header
	}{
		{
			name:         "still pending at the processor",
			sale:         pendingSale("sale-1"),
			httpStatus:   http.StatusOK,
			responseBody: `{"sale":"sale-1","status":"PENDING"}`,
		},
		{
			name:         "completed sale is settled",
			sale:         pendingSale("sale-2"),
			httpStatus:   http.StatusOK,
			responseBody: `{"sale":"sale-2","status":"COMPLETED"}`,
			settled:      true,
		},
		{
			name:          "context canceled",
			sale:          pendingSale("sale-3"),
			httpStatus:    http.StatusOK,
			responseBody:  `{"sale":"sale-3","status":"PENDING"}`,
			expectedError: context.Canceled.Error(),
			cancelContext: true,
		},
		{
			name:          "network failure after retries",
			sale:          pendingSale("sale-4"),
			httpStatus:    http.StatusInternalServerError,
			expectedError: "failed to settle sale sale-4 after 3 retries: server error",
			retryError:    errors.New("server error"),
		},
		{
			name:          "sale unknown to processor after retries",
			sale:          pendingSale("sale-5"),
			httpStatus:    http.StatusNoContent,
			expectedError: "sale sale-5 still unknown to processor after 3 retries",
		},
		{
			name:          "unexpected status code",
			sale:          pendingSale("sale-6"),
			httpStatus:    http.StatusTeapot,
			expectedError: "unexpected status code",
		},
		{
			name:         "rate limit handling",
			sale:         pendingSale("sale-7"),
			httpStatus:   http.StatusTooManyRequests,
			retryHeaders: http.Header{"Retry-After": []string{"1"}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			service, saleRepo, transactionRepo, notifier, txManager, client := NewMock(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelContext {
				cancel()
			}

			switch {
			case tt.cancelContext:
			case tt.retryError != nil:
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), http.Header{}, tt.retryError).Times(3)
			case tt.retryHeaders != nil:
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), tt.retryHeaders, nil).Times(1)
			case tt.httpStatus == http.StatusNoContent:
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), http.Header{}, nil).Times(3)
			default:
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), http.Header{}, nil).Times(1)
			}

			if tt.settled {
				passthroughTx(txManager)
				saleRepo.EXPECT().UpdateStatus(gomock.Any(), tt.sale.ID, domain.SaleCompleted).Return(nil)
				transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.Transaction{}, nil).Times(2)
				notifier.EXPECT().Add(gomock.Any(), gomock.Any()).Return(&domain.Notification{}, nil).Times(2)
			}

			err := service.handleSale(ctx, tt.sale)

			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_settleCompleted(t *testing.T) {
	t.Run("credits both participants and notifies after commit", func(t *testing.T) {
		service, saleRepo, transactionRepo, notifier, txManager, _ := NewMock(t)
		sale := pendingSale("sale-1")

		passthroughTx(txManager)
		saleRepo.EXPECT().UpdateStatus(gomock.Any(), "sale-1", domain.SaleCompleted).Return(nil)

		transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
				assert.Equal(t, "producer-1", tx.UserID)
				assert.Equal(t, domain.TransactionCredit, tx.Type)
				assert.True(t, tx.Amount.Equal(decimal.NewFromInt(70)), "producer keeps amount minus commission")
				return tx, nil
			})
		transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
				assert.Equal(t, "affiliate-1", tx.UserID)
				assert.True(t, tx.Amount.Equal(decimal.NewFromInt(30)))
				return tx, nil
			})

		notifier.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
				assert.Equal(t, "producer-1", n.UserID)
				assert.Equal(t, domain.NotificationNewSale, n.Type)
				return n, nil
			})
		notifier.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
				assert.Equal(t, "affiliate-1", n.UserID)
				assert.Equal(t, domain.NotificationNewReferral, n.Type)
				return n, nil
			})

		assert.NoError(t, service.settleCompleted(context.Background(), sale))
	})

	t.Run("direct sale credits only the producer", func(t *testing.T) {
		service, saleRepo, transactionRepo, notifier, txManager, _ := NewMock(t)
		sale := pendingSale("sale-1")
		sale.AffiliateID = ""
		sale.CommissionAmount = decimal.Zero

		passthroughTx(txManager)
		saleRepo.EXPECT().UpdateStatus(gomock.Any(), "sale-1", domain.SaleCompleted).Return(nil)
		transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
				assert.True(t, tx.Amount.Equal(decimal.NewFromInt(100)))
				return tx, nil
			}).Times(1)
		notifier.EXPECT().Add(gomock.Any(), gomock.Any()).Return(&domain.Notification{}, nil).Times(1)

		assert.NoError(t, service.settleCompleted(context.Background(), sale))
	})

	t.Run("rolled back transaction emits no notification", func(t *testing.T) {
		service, saleRepo, transactionRepo, _, txManager, _ := NewMock(t)
		sale := pendingSale("sale-1")

		passthroughTx(txManager)
		saleRepo.EXPECT().UpdateStatus(gomock.Any(), "sale-1", domain.SaleCompleted).Return(nil)
		transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))

		err := service.settleCompleted(context.Background(), sale)
		assert.Error(t, err)
	})
}

func TestService_settleReversal(t *testing.T) {
	tests := []struct {
		name       string
		saleStatus domain.SaleStatus
	}{
		{name: "refund", saleStatus: domain.SaleRefunded},
		{name: "chargeback", saleStatus: domain.SaleChargeback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, saleRepo, transactionRepo, _, txManager, _ := NewMock(t)
			sale := pendingSale("sale-1")

			passthroughTx(txManager)
			saleRepo.EXPECT().UpdateStatus(gomock.Any(), "sale-1", tt.saleStatus).Return(nil)

			transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
					assert.Equal(t, domain.TransactionRefund, tx.Type)
					assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-70)), "producer entry offsets the original credit")
					return tx, nil
				})
			transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
					assert.Equal(t, "affiliate-1", tx.UserID)
					assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-30)))
					return tx, nil
				})

			assert.NoError(t, service.settleReversal(context.Background(), sale, tt.saleStatus))
		})
	}
}

func TestService_processStatus(t *testing.T) {
	t.Run("malformed payload", func(t *testing.T) {
		service, _, _, _, _, _ := NewMock(t)
		err := service.processStatus(context.Background(), pendingSale("sale-1"), []byte(`{invalid json}`))
		assert.Error(t, err)
	})

	t.Run("sale id mismatch", func(t *testing.T) {
		service, _, _, _, _, _ := NewMock(t)
		err := service.processStatus(context.Background(), pendingSale("sale-1"), []byte(`{"sale":"sale-9","status":"COMPLETED"}`))
		assert.Error(t, err)
	})

	t.Run("unrecognized status is ignored", func(t *testing.T) {
		service, _, _, _, _, _ := NewMock(t)
		err := service.processStatus(context.Background(), pendingSale("sale-1"), []byte(`{"sale":"sale-1","status":"WEIRD"}`))
		assert.NoError(t, err)
	})
}

func TestService_handleRateLimit(t *testing.T) {
	service, _, _, _, _, _ := NewMock(t)

	sale := pendingSale("sale-1")
	attempt := 1

	headers := http.Header{}
	headers.Set("Retry-After", "1")

	start := time.Now()
	err := service.handleRateLimit(sale, headers, attempt)
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 1*time.Second)
	assert.LessOrEqual(t, elapsed, 2*time.Second)

	start = time.Now()
	err = service.handleRateLimit(sale, http.Header{}, attempt)
	elapsed = time.Since(start)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, retryInterval*time.Duration(attempt))
}
