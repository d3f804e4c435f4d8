package salerepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/marketsaas/marketsaas/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

var saleColumns = []string{
	"id", "product_id", "producer_id", "affiliate_id", "customer_email",
	"customer_name", "amount", "commission_amount", "status", "created_at",
}

func TestRepository_FindByUser(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	t.Run("Returns sales for producer or affiliate", func(t *testing.T) {
		rows := pgxmock.NewRows(saleColumns).
			AddRow("sale-2", "prod-1", "user-1", "user-2", "buyer@example.com", "Buyer",
				decimal.NewFromInt(100), decimal.NewFromInt(30), "completed", now).
			AddRow("sale-1", "prod-1", "user-1", "", "other@example.com", "Other",
				decimal.NewFromInt(100), decimal.Zero, "pending", now.Add(-time.Hour))
		mock.ExpectQuery("SELECT (.+) FROM sales WHERE producer_id = \\$1 OR affiliate_id = \\$1").
			WithArgs("user-1").
			WillReturnRows(rows)

		result, err := repo.FindByUser(context.Background(), "user-1")
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, "sale-2", result[0].ID)
		assert.Equal(t, "user-2", result[0].AffiliateID)
		assert.Equal(t, "", result[1].AffiliateID)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sales WHERE producer_id = \\$1 OR affiliate_id = \\$1").
			WithArgs("user-1").
			WillReturnError(errors.New("database error"))

		result, err := repo.FindByUser(context.Background(), "user-1")
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestRepository_FindForSettlement(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	t.Run("Returns pending sales oldest first", func(t *testing.T) {
		rows := pgxmock.NewRows(saleColumns).
			AddRow("sale-1", "prod-1", "user-1", "user-2", "buyer@example.com", "Buyer",
				decimal.NewFromInt(100), decimal.NewFromInt(30), "pending", now)
		mock.ExpectQuery("SELECT (.+) FROM sales WHERE status = 'pending'").
			WithArgs(1000).
			WillReturnRows(rows)

		result, err := repo.FindForSettlement(context.Background(), 1000)
		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, domain.SalePending, result[0].Status)
	})

	t.Run("Scan error on malformed row", func(t *testing.T) {
		rows := pgxmock.NewRows(saleColumns).
			AddRow("sale-1", "prod-1", "user-1", "user-2", "buyer@example.com", "Buyer",
				"not-a-decimal", decimal.NewFromInt(30), "pending", now)
		mock.ExpectQuery("SELECT (.+) FROM sales WHERE status = 'pending'").
			WithArgs(1000).
			WillReturnRows(rows)

		result, err := repo.FindForSettlement(context.Background(), 1000)
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		status    domain.SaleStatus
		mockSetup func(status domain.SaleStatus)
		expectErr bool
	}{
		{
			name:   "Status updated",
			status: domain.SaleCompleted,
			mockSetup: func(status domain.SaleStatus) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE sales SET status = $1 WHERE id = $2")).
					WithArgs(status, "sale-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name:   "Database error",
			status: domain.SaleRefunded,
			mockSetup: func(status domain.SaleStatus) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE sales SET status = $1 WHERE id = $2")).
					WithArgs(status, "sale-1").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup(tt.status)
			err := repo.UpdateStatus(context.Background(), "sale-1", tt.status)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
