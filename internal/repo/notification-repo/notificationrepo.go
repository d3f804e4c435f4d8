package notificationrepo

import (
	"context"

	"github.com/google/uuid"
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

func (r *Repository) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	query := `
        INSERT INTO notifications (id, user_id, type, title, message, data)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	notification.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, query, notification.ID, notification.UserID, notification.Type,
		notification.Title, notification.Message, notification.Data).
		Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		zap.L().Error("can't create notification", zap.Error(err))
		return nil, err
	}
	return notification, nil
}

func (r *Repository) FindByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	query := `
        SELECT id, user_id, type, title, message, data, read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		err := rows.Scan(&notification.ID, &notification.UserID, &notification.Type,
			&notification.Title, &notification.Message, &notification.Data,
			&notification.Read, &notification.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan notification row", zap.Error(err))
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

func (r *Repository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `
        SELECT COUNT(*)
        FROM notifications
        WHERE user_id = $1 AND read = FALSE
    `
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		zap.L().Error("can't count unread notifications", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// MarkRead flips read to true for a single notification. The recipient filter
// keeps one user from touching another user's mailbox; read never reverts.
func (r *Repository) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	query := `
        UPDATE notifications
        SET read = TRUE
        WHERE id = $1 AND user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		zap.L().Error("can't mark notification as read", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) MarkAllRead(ctx context.Context, userID string) error {
	query := `
        UPDATE notifications
        SET read = TRUE
        WHERE user_id = $1 AND read = FALSE
    `
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't mark notifications as read", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) DeleteByUser(ctx context.Context, userID string) error {
	query := `
        DELETE FROM notifications
        WHERE user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't clear notifications", zap.Error(err))
		return err
	}
	return nil
}
