package repository

import (
	"context"
	"fmt"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id int64) (*model.Notification, error)
	// ListByUser returns newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkRead(ctx context.Context, id int64) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type sqlNotificationRepository struct {
	q sqlx.ExtContext
}

const notificationColumns = `id, user_id, type, message, is_read, metadata, created_at`

func (r *sqlNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	n.CreatedAt = now()
	n.EncodeMetadata()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO notifications (user_id, type, message, is_read, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		n.UserID, n.Type, n.Message, n.IsRead, n.MetadataJSON, n.CreatedAt)
	if err != nil {
		return wrapWriteErr("sqlNotificationRepository.Create", err)
	}
	n.ID = id
	n.DecodeMetadata()
	return nil
}

func (r *sqlNotificationRepository) FindByID(ctx context.Context, id int64) (*model.Notification, error) {
	n := &model.Notification{}
	if err := getOne(ctx, r.q, n, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("sqlNotificationRepository.FindByID: %w", err)
	}
	n.DecodeMetadata()
	return n, nil
}

func (r *sqlNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := selectAll(ctx, r.q, &notifications,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlNotificationRepository.ListByUser: %w", err)
	}
	for i := range notifications {
		notifications[i].DecodeMetadata()
	}
	return notifications, nil
}

func (r *sqlNotificationRepository) MarkRead(ctx context.Context, id int64) (*model.Notification, error) {
	n, err := execAffected(ctx, r.q, `UPDATE notifications SET is_read = ? WHERE id = ?`, true, id)
	if err != nil {
		return nil, fmt.Errorf("sqlNotificationRepository.MarkRead: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("sqlNotificationRepository.MarkRead: %w", common.ErrNotFound)
	}
	return r.FindByID(ctx, id)
}

func (r *sqlNotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	n, err := execAffected(ctx, r.q, `UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?`, true, userID, false)
	if err != nil {
		return 0, fmt.Errorf("sqlNotificationRepository.MarkAllRead: %w", err)
	}
	return int(n), nil
}

func (r *sqlNotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?`, userID, false)
	if err != nil {
		return 0, fmt.Errorf("sqlNotificationRepository.CountUnread: %w", err)
	}
	return n, nil
}
