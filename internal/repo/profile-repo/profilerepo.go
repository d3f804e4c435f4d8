package profilerepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `
        SELECT id, name, email, password_hash, phone, cpf_cnpj, created_at, updated_at
        FROM profiles
        WHERE email = $1
    `
	row := r.db.QueryRow(ctx, query, email)

	var profile domain.Profile
	err := row.Scan(&profile.ID, &profile.Name, &profile.Email, &profile.PasswordHash,
		&profile.Phone, &profile.CpfCnpj, &profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find profile by email", zap.Error(err))
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
        SELECT id, name, email, password_hash, phone, cpf_cnpj, created_at, updated_at
        FROM profiles
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)

	var profile domain.Profile
	err := row.Scan(&profile.ID, &profile.Name, &profile.Email, &profile.PasswordHash,
		&profile.Phone, &profile.CpfCnpj, &profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find profile by id", zap.Error(err))
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
        INSERT INTO profiles (id, name, email, password_hash, phone, cpf_cnpj)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	profile.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, query, profile.ID, profile.Name, profile.Email,
		profile.PasswordHash, profile.Phone, profile.CpfCnpj).
		Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		zap.L().Error("can't create profile", zap.Error(err))
		return nil, err
	}
	return profile, nil
}

func (r *Repository) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
        UPDATE profiles
        SET name = $1, phone = $2, cpf_cnpj = $3, updated_at = now()
        WHERE id = $4
        RETURNING id, name, email, password_hash, phone, cpf_cnpj, created_at, updated_at
    `
	var updated domain.Profile
	err := r.db.QueryRow(ctx, query, profile.Name, profile.Phone, profile.CpfCnpj, profile.ID).
		Scan(&updated.ID, &updated.Name, &updated.Email, &updated.PasswordHash,
			&updated.Phone, &updated.CpfCnpj, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		zap.L().Error("can't update profile", zap.Error(err))
		return nil, err
	}
	return &updated, nil
}
