package productservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/pkg/validate"
)

type Repo interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Product, error)
	FindActive(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, ownerID string, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, ownerID, productID string) (bool, error)
}

var (
	ErrNotFound          = errors.New("product not found")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidCommission = errors.New("commission must be between 0 and 100")
	ErrInvalidModel      = errors.New("model must be recurring or whitelabel")
	ErrInvalidStatus     = errors.New("status must be active or paused")
	ErrEmptyName         = errors.New("name is required")
)

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{repo: repo}
}

func validateProduct(product *domain.Product) error {
	switch {
	case product.Name == "":
		return ErrEmptyName
	case !validate.IsPrice(product.Price):
		return ErrInvalidPrice
	case !validate.IsCommission(product.Commission):
		return ErrInvalidCommission
	case !validate.IsProductModel(product.Model):
		return ErrInvalidModel
	case !validate.IsProductStatus(product.Status):
		return ErrInvalidStatus
	}
	return nil
}

// Create validates the product before anything reaches the store.
func (s *Service) Create(ctx context.Context, ownerID string, product *domain.Product) (*domain.Product, error) {
	if product.Status == "" {
		product.Status = domain.ProductActive
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.OwnerID = ownerID

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		zap.L().Error("can't create product", zap.Error(err))
		return nil, err
	}
	zap.L().Info("product created",
		zap.String("productID", created.ID),
		zap.String("ownerID", ownerID))
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		zap.L().Error("can't fetch product", zap.Error(err))
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// ListByOwner returns the catalog a producer manages.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Product, error) {
	products, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		zap.L().Error("can't fetch owned products", zap.Error(err))
		return nil, err
	}
	return products, nil
}

// ListActive returns the public marketplace view: active products only.
func (s *Service) ListActive(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.FindActive(ctx)
	if err != nil {
		zap.L().Error("can't fetch active products", zap.Error(err))
		return nil, err
	}
	return products, nil
}

// Update rewrites a product the caller owns. The repository filters by owner,
// so a foreign or missing product both come back as ErrNotFound.
func (s *Service) Update(ctx context.Context, ownerID string, product *domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, ownerID, product)
	if err != nil {
		zap.L().Error("can't update product", zap.Error(err))
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, productID string) error {
	deleted, err := s.repo.Delete(ctx, ownerID, productID)
	if err != nil {
		zap.L().Error("can't delete product", zap.Error(err))
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	zap.L().Info("product deleted", zap.String("productID", productID))
	return nil
}
