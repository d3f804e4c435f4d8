package notificationservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/marketsaas/marketsaas/internal/domain"
)

type Repo interface {
	Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

var (
	ErrMissingRecipient = errors.New("notification recipient is required")
	ErrNotFound         = errors.New("notification not found")
)

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

// Add appends a notification to the recipient's mailbox. Workflows write into
// the counterparty's mailbox here instead of touching its storage directly.
func (s *Service) Add(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if notification.UserID == "" {
		return nil, ErrMissingRecipient
	}
	created, err := s.repo.Create(ctx, notification)
	if err != nil {
		zap.L().Error("failed to append notification", zap.Error(err))
		return nil, err
	}
	return created, nil
}

// ListFor returns the recipient's mailbox, newest first.
func (s *Service) ListFor(ctx context.Context, userID string) ([]domain.Notification, error) {
	notifications, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch notifications", zap.Error(err))
		return nil, err
	}
	return notifications, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		zap.L().Error("failed to count unread notifications", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// MarkRead sets the read flag for one of the user's notifications. The flag
// is monotonic: once read, it never reverts.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	updated, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		zap.L().Error("failed to mark notification as read", zap.Error(err))
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		zap.L().Error("failed to mark all notifications as read", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		zap.L().Error("failed to clear notifications", zap.Error(err))
		return err
	}
	return nil
}
