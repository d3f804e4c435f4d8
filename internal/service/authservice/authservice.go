package authservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/pkg/auth"
)

const tokenTTL = 24 * time.Hour

type ProfileRepo interface {
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
}

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	repo        ProfileRepo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
}

func New(repo ProfileRepo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		repo:        repo,
		hashService: hashService,
		jwtService:  jwtService,
	}
}

// Register creates a profile with a bcrypt password hash. Emails are unique
// account identifiers.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.Profile, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't check email", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, err
	}

	profile, err := s.repo.Create(ctx, &domain.Profile{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		zap.L().Error("can't create profile", zap.Error(err))
		return nil, err
	}

	zap.L().Info("profile registered", zap.String("userID", profile.ID))
	return profile, nil
}

// Authenticate verifies the credentials and returns the matching profile.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.Profile, error) {
	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't fetch profile for login", zap.Error(err))
		return nil, err
	}
	if profile == nil || !s.hashService.ComparePassword(profile.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return profile, nil
}

func (s *Service) GenerateToken(userID string) (string, error) {
	return s.jwtService.GenerateJWT(userID, time.Now().Add(tokenTTL))
}
