package metricsservice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
)

type SaleRepo interface {
	FindByUser(ctx context.Context, userID string) ([]domain.Sale, error)
}
type TransactionRepo interface {
	FindByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}
type ProductRepo interface {
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Product, error)
}

type Service struct {
	saleRepo        SaleRepo
	transactionRepo TransactionRepo
	productRepo     ProductRepo
	holdback        time.Duration
}

func New(saleRepo SaleRepo, transactionRepo TransactionRepo, productRepo ProductRepo, holdbackDays int) *Service {
	return &Service{
		saleRepo:        saleRepo,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		holdback:        time.Duration(holdbackDays) * 24 * time.Hour,
	}
}

// GetMetrics loads the user's snapshot and derives the dashboard metrics.
// Nothing is persisted; every call recomputes from the current records.
func (s *Service) GetMetrics(ctx context.Context, userID string) (*domain.Metrics, error) {
	sales, err := s.saleRepo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch sales for metrics", zap.Error(err))
		return nil, err
	}
	transactions, err := s.transactionRepo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch transactions for metrics", zap.Error(err))
		return nil, err
	}
	products, err := s.productRepo.FindByOwner(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch products for metrics", zap.Error(err))
		return nil, err
	}

	metrics := Calculate(sales, transactions, products, s.holdback, time.Now())
	return &metrics, nil
}

// Calculate derives the metrics summary from one account's records. Credits
// older than the holdback window count as available, younger ones as pending;
// the two partitions are disjoint and cover all completed credits.
func Calculate(sales []domain.Sale, transactions []domain.Transaction, products []domain.Product, holdback time.Duration, now time.Time) domain.Metrics {
	holdbackEdge := now.Add(-holdback)

	recurring := make(map[string]bool, len(products))
	for _, product := range products {
		if product.Model == domain.ModelRecurring {
			recurring[product.ID] = true
		}
	}

	totalRevenue := decimal.Zero
	mrr := decimal.Zero
	clients := make(map[string]struct{})
	refunded := 0
	for _, sale := range sales {
		switch sale.Status {
		case domain.SaleCompleted:
			totalRevenue = totalRevenue.Add(sale.Amount)
			if recurring[sale.ProductID] {
				mrr = mrr.Add(sale.Amount)
			}
			clients[sale.CustomerEmail] = struct{}{}
		case domain.SaleRefunded, domain.SaleChargeback:
			refunded++
		}
	}

	available := decimal.Zero
	pending := decimal.Zero
	withdrawn := decimal.Zero
	for _, transaction := range transactions {
		if transaction.Status != domain.TransactionCompleted {
			continue
		}
		switch transaction.Type {
		case domain.TransactionCredit:
			if transaction.CreatedAt.Before(holdbackEdge) {
				available = available.Add(transaction.Amount)
			} else {
				pending = pending.Add(transaction.Amount)
			}
		case domain.TransactionWithdrawal:
			withdrawn = withdrawn.Add(transaction.Amount)
		}
	}

	ltv := decimal.Zero
	if len(clients) > 0 {
		ltv = totalRevenue.DivRound(decimal.NewFromInt(int64(len(clients))), 2)
	}

	churnRate := 0.0
	if len(sales) > 0 {
		churnRate = float64(refunded) / float64(len(sales)) * 100
	}

	return domain.Metrics{
		MRR:              mrr,
		TotalRevenue:     totalRevenue,
		AvailableBalance: available,
		PendingBalance:   pending,
		ActiveClients:    len(clients),
		ChurnRate:        churnRate,
		TotalWithdrawn:   withdrawn,
		LTV:              ltv,
	}
}
