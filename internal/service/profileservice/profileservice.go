package profileservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
)

type Repo interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

var ErrNotFound = errors.New("profile not found")

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't fetch profile", zap.Error(err))
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// Update applies a partial edit. Nil fields keep their stored value; email
// and password never change through this path.
func (s *Service) Update(ctx context.Context, userID string, name, phone, cpfCnpj *string) (*domain.Profile, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't fetch profile for update", zap.Error(err))
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	if name != nil {
		profile.Name = *name
	}
	if phone != nil {
		profile.Phone = *phone
	}
	if cpfCnpj != nil {
		profile.CpfCnpj = *cpfCnpj
	}

	updated, err := s.repo.Update(ctx, profile)
	if err != nil {
		zap.L().Error("can't update profile", zap.Error(err))
		return nil, err
	}
	return updated, nil
}
