package salerepo

import (
	"context"

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

// FindByUser returns sales where the user participates as producer or
// affiliate, newest first.
func (r *Repository) FindByUser(ctx context.Context, userID string) ([]domain.Sale, error) {
	query := `
        SELECT id, product_id, producer_id, COALESCE(affiliate_id::text, ''), customer_email,
               customer_name, amount, commission_amount, status, created_at
        FROM sales
        WHERE producer_id = $1 OR affiliate_id = $1
        ORDER BY created_at DESC
    `
	return r.findAll(ctx, query, userID)
}

// FindForSettlement returns sales still awaiting a terminal status from the
// payment processor, oldest first.
func (r *Repository) FindForSettlement(ctx context.Context, limit uint32) ([]domain.Sale, error) {
	query := `
        SELECT id, product_id, producer_id, COALESCE(affiliate_id::text, ''), customer_email,
               customer_name, amount, commission_amount, status, created_at
        FROM sales
        WHERE status = 'pending'
        ORDER BY created_at ASC
        LIMIT $1
    `
	return r.findAll(ctx, query, int(limit))
}

func (r *Repository) findAll(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get sales", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var sale domain.Sale
		err := rows.Scan(&sale.ID, &sale.ProductID, &sale.ProducerID, &sale.AffiliateID,
			&sale.CustomerEmail, &sale.CustomerName, &sale.Amount, &sale.CommissionAmount,
			&sale.Status, &sale.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan sale row", zap.Error(err))
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, saleID string, status domain.SaleStatus) error {
	query := `
        UPDATE sales
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, saleID)
	if err != nil {
		zap.L().Error("can't update sale status", zap.Error(err))
		return err
	}
	return nil
}
