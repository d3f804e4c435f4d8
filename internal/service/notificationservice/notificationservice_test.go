package notificationservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/marketsaas/marketsaas/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	service := New(repo)
	defer ctrl.Finish()
	return service, repo
}

func TestAdd(t *testing.T) {
	notification := &domain.Notification{
		UserID:  "producer-1",
		Type:    domain.NotificationAffiliationRequest,
		Title:   "New Affiliation Request",
		Message: "Someone wants to promote your product",
	}

	tests := []struct {
		name          string
		notification  *domain.Notification
		prepareMock   func(repo *MockRepo)
		expectedError error
	}{
		{
			name:         "Appends to the recipient mailbox",
			notification: notification,
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), notification).Return(notification, nil)
			},
		},
		{
			name:          "Missing recipient is rejected before any store call",
			notification:  &domain.Notification{Type: domain.NotificationNewSale},
			expectedError: ErrMissingRecipient,
		},
		{
			name:         "Store error propagates",
			notification: notification,
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), notification).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			if tt.prepareMock != nil {
				tt.prepareMock(repo)
			}

			created, err := service.Add(context.Background(), tt.notification)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, created)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, created)
			}
		})
	}
}

func TestListFor(t *testing.T) {
	now := time.Now()
	stored := []domain.Notification{
		{ID: "n-2", UserID: "user-1", CreatedAt: now},
		{ID: "n-1", UserID: "user-1", CreatedAt: now.Add(-time.Hour)},
	}

	service, repo := NewMock(t)
	repo.EXPECT().FindByUser(gomock.Any(), "user-1").Return(stored, nil)

	notifications, err := service.ListFor(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, stored, notifications)
	assert.True(t, notifications[0].CreatedAt.After(notifications[1].CreatedAt), "newest first")
}

func TestUnreadCount(t *testing.T) {
	service, repo := NewMock(t)
	repo.EXPECT().CountUnread(gomock.Any(), "user-1").Return(3, nil)

	count, err := service.UnreadCount(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMarkRead(t *testing.T) {
	tests := []struct {
		name          string
		prepareMock   func(repo *MockRepo)
		expectedError error
	}{
		{
			name: "Marks own notification as read",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().MarkRead(gomock.Any(), "user-1", "n-1").Return(true, nil)
			},
		},
		{
			name: "Another user's notification reports not found",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().MarkRead(gomock.Any(), "user-1", "n-1").Return(false, nil)
			},
			expectedError: ErrNotFound,
		},
		{
			name: "Store error propagates",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().MarkRead(gomock.Any(), "user-1", "n-1").Return(false, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			tt.prepareMock(repo)

			err := service.MarkRead(context.Background(), "user-1", "n-1")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMarkAllRead(t *testing.T) {
	service, repo := NewMock(t)
	repo.EXPECT().MarkAllRead(gomock.Any(), "user-1").Return(nil)

	assert.NoError(t, service.MarkAllRead(context.Background(), "user-1"))
}

func TestClear(t *testing.T) {
	service, repo := NewMock(t)
	repo.EXPECT().DeleteByUser(gomock.Any(), "user-1").Return(errors.New("db error"))

	err := service.Clear(context.Background(), "user-1")
	assert.Error(t, err)
}
