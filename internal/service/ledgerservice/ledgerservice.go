package ledgerservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
)

type SaleRepo interface {
	FindByUser(ctx context.Context, userID string) ([]domain.Sale, error)
}
type TransactionRepo interface {
	FindByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// Service exposes the read side of the money ledger: the sales a user
// participates in and the balance entries written against their account.
type Service struct {
	saleRepo        SaleRepo
	transactionRepo TransactionRepo
}

func New(saleRepo SaleRepo, transactionRepo TransactionRepo) *Service {
	return &Service{
		saleRepo:        saleRepo,
		transactionRepo: transactionRepo,
	}
}

// ListSales returns sales where the user is producer or affiliate, newest
// first.
func (s *Service) ListSales(ctx context.Context, userID string) ([]domain.Sale, error) {
	sales, err := s.saleRepo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("can't fetch sales", zap.Error(err))
		return nil, err
	}
	return sales, nil
}

// ListTransactions returns the user's balance entries, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("can't fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}
