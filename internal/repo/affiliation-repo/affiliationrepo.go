package affiliationrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/pg"
)

// ErrDuplicate reports that the partial unique index rejected a second
// active affiliation for the same (user, product) pair.
var ErrDuplicate = errors.New("active affiliation already exists")

const uniqueViolationCode = "23505"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, affiliation *domain.Affiliation) (*domain.Affiliation, error) {
	query := `
        INSERT INTO affiliations (id, user_id, product_id, status, referral_code)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	affiliation.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, query, affiliation.ID, affiliation.UserID, affiliation.ProductID,
		affiliation.Status, affiliation.ReferralCode).
		Scan(&affiliation.ID, &affiliation.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrDuplicate
		}
		zap.L().Error("can't create affiliation", zap.Error(err))
		return nil, err
	}
	return affiliation, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Affiliation, error) {
	query := `
        SELECT id, user_id, product_id, status, referral_code, created_at
        FROM affiliations
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)

	var affiliation domain.Affiliation
	err := row.Scan(&affiliation.ID, &affiliation.UserID, &affiliation.ProductID,
		&affiliation.Status, &affiliation.ReferralCode, &affiliation.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find affiliation", zap.Error(err))
		return nil, err
	}
	return &affiliation, nil
}

// FindActiveByUserAndProduct returns the pending or approved affiliation for
// the pair, if any. Rejected rows are ignored so a user can re-request.
func (r *Repository) FindActiveByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Affiliation, error) {
	query := `
        SELECT id, user_id, product_id, status, referral_code, created_at
        FROM affiliations
        WHERE user_id = $1 AND product_id = $2 AND status <> 'rejected'
    `
	row := r.db.QueryRow(ctx, query, userID, productID)

	var affiliation domain.Affiliation
	err := row.Scan(&affiliation.ID, &affiliation.UserID, &affiliation.ProductID,
		&affiliation.Status, &affiliation.ReferralCode, &affiliation.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find affiliation for user and product", zap.Error(err))
		return nil, err
	}
	return &affiliation, nil
}

func (r *Repository) FindByReferralCode(ctx context.Context, code string) (*domain.Affiliation, error) {
	query := `
        SELECT id, user_id, product_id, status, referral_code, created_at
        FROM affiliations
        WHERE referral_code = $1
    `
	row := r.db.QueryRow(ctx, query, code)

	var affiliation domain.Affiliation
	err := row.Scan(&affiliation.ID, &affiliation.UserID, &affiliation.ProductID,
		&affiliation.Status, &affiliation.ReferralCode, &affiliation.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find affiliation by referral code", zap.Error(err))
		return nil, err
	}
	return &affiliation, nil
}

func (r *Repository) FindByUser(ctx context.Context, userID string) ([]domain.Affiliation, error) {
	query := `
        SELECT id, user_id, product_id, status, referral_code, created_at
        FROM affiliations
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get affiliations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var affiliations []domain.Affiliation
	for rows.Next() {
		var affiliation domain.Affiliation
		err := rows.Scan(&affiliation.ID, &affiliation.UserID, &affiliation.ProductID,
			&affiliation.Status, &affiliation.ReferralCode, &affiliation.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan affiliation row", zap.Error(err))
			return nil, err
		}
		affiliations = append(affiliations, affiliation)
	}
	return affiliations, nil
}

// UpdateStatus changes only the status field. Referral code and timestamps
// are immutable once the row exists.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.AffiliationStatus) error {
	query := `
        UPDATE affiliations
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		zap.L().Error("can't update affiliation status", zap.Error(err))
		return err
	}
	return nil
}
