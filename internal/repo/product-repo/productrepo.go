package productrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/internal/pg"
)

const productColumns = `id, owner_id, name, description, price, commission, model, status,
        image_url, video_url, webhook_url, github_url, auto_approve_affiliates, created_at, updated_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Price, &p.Commission,
		&p.Model, &p.Status, &p.ImageURL, &p.VideoURL, &p.WebhookURL, &p.GithubURL,
		&p.AutoApproveAffiliates, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE id = $1
    `
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find product", zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (r *Repository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Product, error) {
	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `
	return r.findAll(ctx, query, ownerID)
}

func (r *Repository) FindActive(ctx context.Context) ([]domain.Product, error) {
	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE status = 'active'
        ORDER BY created_at DESC
    `
	return r.findAll(ctx, query)
}

func (r *Repository) findAll(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			zap.L().Error("can't scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (id, owner_id, name, description, price, commission, model, status,
            image_url, video_url, webhook_url, github_url, auto_approve_affiliates)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at, updated_at
    `
	product.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, query, product.ID, product.OwnerID, product.Name, product.Description,
		product.Price, product.Commission, product.Model, product.Status, product.ImageURL,
		product.VideoURL, product.WebhookURL, product.GithubURL, product.AutoApproveAffiliates).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		zap.L().Error("can't create product", zap.Error(err))
		return nil, err
	}
	return product, nil
}

// Update writes only rows owned by ownerID; updating someone else's product
// reports not found.
func (r *Repository) Update(ctx context.Context, ownerID string, product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, commission = $4, model = $5, status = $6,
            image_url = $7, video_url = $8, webhook_url = $9, github_url = $10,
            auto_approve_affiliates = $11, updated_at = now()
        WHERE id = $12 AND owner_id = $13
        RETURNING ` + productColumns + `
	`
	updated, err := scanProduct(r.db.QueryRow(ctx, query, product.Name, product.Description,
		product.Price, product.Commission, product.Model, product.Status, product.ImageURL,
		product.VideoURL, product.WebhookURL, product.GithubURL, product.AutoApproveAffiliates,
		product.ID, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't update product", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, ownerID, productID string) (bool, error) {
	query := `
        DELETE FROM products
        WHERE id = $1 AND owner_id = $2
    `
	tag, err := r.db.Exec(ctx, query, productID, ownerID)
	if err != nil {
		zap.L().Error("can't delete product", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
