package authservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketsaas/marketsaas/internal/domain"
	"github.com/marketsaas/marketsaas/pkg/auth"
)

func NewMock(t *testing.T) (*Service, *MockProfileRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockProfileRepo(ctrl)
	service := New(repo, &auth.HashService{}, &auth.JWTService{})
	defer ctrl.Finish()
	return service, repo
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name          string
		prepareMock   func(repo *MockProfileRepo)
		expectedError error
	}{
		{
			name: "Creates profile with hashed password",
			prepareMock: func(repo *MockProfileRepo) {
				repo.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(nil, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
						assert.Equal(t, "Maria Silva", profile.Name)
						assert.NotEqual(t, "s3cret", profile.PasswordHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte("s3cret")))
						profile.ID = "user-1"
						return profile, nil
					})
			},
		},
		{
			name: "Taken email is rejected",
			prepareMock: func(repo *MockProfileRepo) {
				repo.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(&domain.Profile{ID: "user-1"}, nil)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name: "Store error propagates",
			prepareMock: func(repo *MockProfileRepo) {
				repo.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			tt.prepareMock(repo)

			profile, err := service.Register(context.Background(), "Maria Silva", "maria@example.com", "s3cret")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, profile)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "user-1", profile.ID)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	assert.NoError(t, err)
	stored := &domain.Profile{
		ID:           "user-1",
		Email:        "maria@example.com",
		PasswordHash: string(hash),
	}

	tests := []struct {
		name          string
		password      string
		prepareMock   func(repo *MockProfileRepo)
		expectedError error
	}{
		{
			name:     "Valid credentials",
			password: "s3cret",
			prepareMock: func(repo *MockProfileRepo) {
				repo.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(stored, nil)
			},
		},
		{
			name:     "Wrong password",
			password: "wrong",
			prepareMock: func(repo *MockProfileRepo) {
				repo.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(stored, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Unknown email reports the same error as wrong password",
			password: "s3cret",
			prepareMock: func(repo *MockProfileRepo) {
				repo.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			tt.prepareMock(repo)

			profile, err := service.Authenticate(context.Background(), "maria@example.com", tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, profile)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "user-1", profile.ID)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, _ := NewMock(t)

	token, err := service.GenerateToken("user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := (&auth.JWTService{}).ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}
