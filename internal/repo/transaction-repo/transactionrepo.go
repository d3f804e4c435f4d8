package transactionrepo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
        INSERT INTO transactions (id, user_id, sale_id, type, description, amount, status)
        VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7)
        RETURNING id, created_at
    `
	transaction.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, query, transaction.ID, transaction.UserID, transaction.SaleID,
		transaction.Type, transaction.Description, transaction.Amount, transaction.Status).
		Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		zap.L().Error("can't create transaction", zap.Error(err))
		return nil, err
	}
	return transaction, nil
}

func (r *Repository) FindByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
        SELECT id, user_id, COALESCE(sale_id::text, ''), type, description, amount, status, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		err := rows.Scan(&transaction.ID, &transaction.UserID, &transaction.SaleID,
			&transaction.Type, &transaction.Description, &transaction.Amount,
			&transaction.Status, &transaction.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, nil
}
