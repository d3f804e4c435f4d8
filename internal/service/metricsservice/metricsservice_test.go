package metricsservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/marketsaas/marketsaas/internal/domain"
)

const holdback = 14 * 24 * time.Hour

func NewMock(t *testing.T) (*Service, *MockSaleRepo, *MockTransactionRepo, *MockProductRepo) {
	ctrl := gomock.NewController(t)
	saleRepo := NewMockSaleRepo(ctrl)
	transactionRepo := NewMockTransactionRepo(ctrl)
	productRepo := NewMockProductRepo(ctrl)
	service := New(saleRepo, transactionRepo, productRepo, 14)
	defer ctrl.Finish()
	return service, saleRepo, transactionRepo, productRepo
}

func TestCalculateEmptyInput(t *testing.T) {
	metrics := Calculate(nil, nil, nil, holdback, time.Now())

	assert.True(t, metrics.MRR.IsZero())
	assert.True(t, metrics.TotalRevenue.IsZero())
	assert.True(t, metrics.AvailableBalance.IsZero())
	assert.True(t, metrics.PendingBalance.IsZero())
	assert.Equal(t, 0, metrics.ActiveClients)
	assert.Equal(t, 0.0, metrics.ChurnRate)
	assert.True(t, metrics.TotalWithdrawn.IsZero())
	assert.True(t, metrics.LTV.IsZero())
}

func TestCalculateHoldbackPartition(t *testing.T) {
	now := time.Now()
	transactions := []domain.Transaction{
		{Type: domain.TransactionCredit, Status: domain.TransactionCompleted, Amount: decimal.NewFromInt(100), CreatedAt: now.AddDate(0, 0, -20)},
		{Type: domain.TransactionCredit, Status: domain.TransactionCompleted, Amount: decimal.NewFromInt(50), CreatedAt: now.AddDate(0, 0, -2)},
	}

	metrics := Calculate(nil, transactions, nil, holdback, now)

	assert.True(t, metrics.AvailableBalance.Equal(decimal.NewFromInt(100)))
	assert.True(t, metrics.PendingBalance.Equal(decimal.NewFromInt(50)))
}

func TestCalculatePartitionCompleteness(t *testing.T) {
	now := time.Now()
	offsets := []int{-30, -15, -14, -13, -7, -1, 0}

	var transactions []domain.Transaction
	total := decimal.Zero
	for _, days := range offsets {
		amount := decimal.NewFromFloat(10.01)
		total = total.Add(amount)
		transactions = append(transactions, domain.Transaction{
			Type:      domain.TransactionCredit,
			Status:    domain.TransactionCompleted,
			Amount:    amount,
			CreatedAt: now.AddDate(0, 0, days),
		})
	}

	metrics := Calculate(nil, transactions, nil, holdback, now)

	assert.True(t, metrics.AvailableBalance.Add(metrics.PendingBalance).Equal(total),
		"available + pending must cover all completed credits")
}

func TestCalculateExcludesNonMatchingTransactions(t *testing.T) {
	now := time.Now()
	transactions := []domain.Transaction{
		{Type: domain.TransactionCredit, Status: domain.TransactionPending, Amount: decimal.NewFromInt(40), CreatedAt: now.AddDate(0, 0, -20)},
		{Type: domain.TransactionDebit, Status: domain.TransactionCompleted, Amount: decimal.NewFromInt(30), CreatedAt: now.AddDate(0, 0, -20)},
		{Type: domain.TransactionRefund, Status: domain.TransactionCompleted, Amount: decimal.NewFromInt(20), CreatedAt: now.AddDate(0, 0, -1)},
		{Type: domain.TransactionWithdrawal, Status: domain.TransactionCompleted, Amount: decimal.NewFromInt(75), CreatedAt: now.AddDate(0, 0, -1)},
		{Type: domain.TransactionWithdrawal, Status: domain.TransactionPending, Amount: decimal.NewFromInt(999), CreatedAt: now},
	}

	metrics := Calculate(nil, transactions, nil, holdback, now)

	assert.True(t, metrics.AvailableBalance.IsZero())
	assert.True(t, metrics.PendingBalance.IsZero())
	assert.True(t, metrics.TotalWithdrawn.Equal(decimal.NewFromInt(75)))
}

func TestCalculateRevenueAndMRR(t *testing.T) {
	now := time.Now()
	products := []domain.Product{
		{ID: "prod-recurring", Model: domain.ModelRecurring},
		{ID: "prod-whitelabel", Model: domain.ModelWhitelabel},
	}
	sales := []domain.Sale{
		{ProductID: "prod-recurring", Status: domain.SaleCompleted, Amount: decimal.NewFromInt(100), CustomerEmail: "a@b.com"},
		{ProductID: "prod-whitelabel", Status: domain.SaleCompleted, Amount: decimal.NewFromInt(250), CustomerEmail: "c@d.com"},
		{ProductID: "prod-recurring", Status: domain.SalePending, Amount: decimal.NewFromInt(999), CustomerEmail: "e@f.com"},
	}

	metrics := Calculate(sales, nil, products, holdback, now)

	assert.True(t, metrics.TotalRevenue.Equal(decimal.NewFromInt(350)))
	assert.True(t, metrics.MRR.Equal(decimal.NewFromInt(100)))
	assert.True(t, metrics.TotalRevenue.GreaterThanOrEqual(metrics.MRR))
}

func TestCalculateMRRZeroWithoutRecurring(t *testing.T) {
	products := []domain.Product{
		{ID: "prod-1", Model: domain.ModelWhitelabel},
	}
	sales := []domain.Sale{
		{ProductID: "prod-1", Status: domain.SaleCompleted, Amount: decimal.NewFromInt(100), CustomerEmail: "a@b.com"},
	}

	metrics := Calculate(sales, nil, products, holdback, time.Now())

	assert.True(t, metrics.MRR.IsZero())
	assert.True(t, metrics.TotalRevenue.Equal(decimal.NewFromInt(100)))
}

func TestCalculateChurnRate(t *testing.T) {
	sales := []domain.Sale{
		{Status: domain.SaleCompleted, Amount: decimal.NewFromInt(200), CustomerEmail: "a@b.com"},
		{Status: domain.SaleRefunded, Amount: decimal.NewFromInt(50), CustomerEmail: "c@d.com"},
	}

	metrics := Calculate(sales, nil, nil, holdback, time.Now())
	assert.Equal(t, 50.0, metrics.ChurnRate)

	// Churn is invariant to the ordering of sales.
	reversed := []domain.Sale{sales[1], sales[0]}
	metricsReversed := Calculate(reversed, nil, nil, holdback, time.Now())
	assert.Equal(t, metrics.ChurnRate, metricsReversed.ChurnRate)
}

func TestCalculateActiveClientsAndLTV(t *testing.T) {
	sales := []domain.Sale{
		{Status: domain.SaleCompleted, Amount: decimal.NewFromInt(100), CustomerEmail: "repeat@client.com"},
		{Status: domain.SaleCompleted, Amount: decimal.NewFromInt(150), CustomerEmail: "repeat@client.com"},
		{Status: domain.SaleCompleted, Amount: decimal.NewFromInt(100), CustomerEmail: "other@client.com"},
		{Status: domain.SaleRefunded, Amount: decimal.NewFromInt(75), CustomerEmail: "gone@client.com"},
	}

	metrics := Calculate(sales, nil, nil, holdback, time.Now())

	assert.Equal(t, 2, metrics.ActiveClients)
	assert.True(t, metrics.LTV.Equal(decimal.NewFromInt(175)), "ltv = 350 / 2")
}

func TestCalculateLTVRounding(t *testing.T) {
	sales := []domain.Sale{
		{Status: domain.SaleCompleted, Amount: decimal.NewFromInt(100), CustomerEmail: "a@b.com"},
		{Status: domain.SaleCompleted, Amount: decimal.NewFromInt(100), CustomerEmail: "c@d.com"},
		{Status: domain.SaleCompleted, Amount: decimal.NewFromInt(100), CustomerEmail: "e@f.com"},
	}

	metrics := Calculate(sales, nil, nil, holdback, time.Now())

	assert.True(t, metrics.LTV.Equal(decimal.NewFromFloat(100)))

	sales = append(sales, domain.Sale{Status: domain.SaleCompleted, Amount: decimal.NewFromInt(1), CustomerEmail: "a@b.com"})
	metrics = Calculate(sales, nil, nil, holdback, time.Now())

	assert.True(t, metrics.LTV.Equal(decimal.NewFromFloat(100.33)), "301 / 3 rounded to 2 places")
}

func TestGetMetrics(t *testing.T) {
	userID := "a81bc81b-dead-4e5d-abff-90865d1e13b1"
	now := time.Now()

	tests := []struct {
		name          string
		prepareMock   func(saleRepo *MockSaleRepo, transactionRepo *MockTransactionRepo, productRepo *MockProductRepo)
		expectedError error
		check         func(t *testing.T, metrics *domain.Metrics)
	}{
		{
			name: "Computes metrics from the loaded snapshot",
			prepareMock: func(saleRepo *MockSaleRepo, transactionRepo *MockTransactionRepo, productRepo *MockProductRepo) {
				saleRepo.EXPECT().FindByUser(gomock.Any(), userID).Return([]domain.Sale{
					{ProductID: "prod-1", Status: domain.SaleCompleted, Amount: decimal.NewFromInt(300), CustomerEmail: "a@b.com"},
				}, nil)
				transactionRepo.EXPECT().FindByUser(gomock.Any(), userID).Return([]domain.Transaction{
					{Type: domain.TransactionCredit, Status: domain.TransactionCompleted, Amount: decimal.NewFromInt(90), CreatedAt: now.AddDate(0, 0, -30)},
				}, nil)
				productRepo.EXPECT().FindByOwner(gomock.Any(), userID).Return([]domain.Product{
					{ID: "prod-1", Model: domain.ModelRecurring},
				}, nil)
			},
			check: func(t *testing.T, metrics *domain.Metrics) {
				assert.True(t, metrics.TotalRevenue.Equal(decimal.NewFromInt(300)))
				assert.True(t, metrics.MRR.Equal(decimal.NewFromInt(300)))
				assert.True(t, metrics.AvailableBalance.Equal(decimal.NewFromInt(90)))
				assert.Equal(t, 1, metrics.ActiveClients)
			},
		},
		{
			name: "Sales fetch fails",
			prepareMock: func(saleRepo *MockSaleRepo, transactionRepo *MockTransactionRepo, productRepo *MockProductRepo) {
				saleRepo.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name: "Transactions fetch fails",
			prepareMock: func(saleRepo *MockSaleRepo, transactionRepo *MockTransactionRepo, productRepo *MockProductRepo) {
				saleRepo.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, nil)
				transactionRepo.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name: "Products fetch fails",
			prepareMock: func(saleRepo *MockSaleRepo, transactionRepo *MockTransactionRepo, productRepo *MockProductRepo) {
				saleRepo.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, nil)
				transactionRepo.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, nil)
				productRepo.EXPECT().FindByOwner(gomock.Any(), userID).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, saleRepo, transactionRepo, productRepo := NewMock(t)
			tt.prepareMock(saleRepo, transactionRepo, productRepo)

			metrics, err := service.GetMetrics(context.Background(), userID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, metrics)
			} else {
				assert.NoError(t, err)
				tt.check(t, metrics)
			}
		})
	}
}
