package service

import (
	"context"
	"fmt"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"
)

type NotificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, user *model.User) ([]model.Notification, error) {
	notifications, err := s.store.Notifications().ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, user *model.User, id int64) (*model.Notification, error) {
	n, err := s.store.Notifications().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "notification")
	}
	if n.UserID != user.ID {
		return nil, common.Errorf("notification %d belongs to another user: %w", id, common.ErrForbidden)
	}
	return s.store.Notifications().MarkRead(ctx, id)
}

// MarkAllRead returns how many notifications changed state.
func (s *NotificationService) MarkAllRead(ctx context.Context, user *model.User) (int, error) {
	n, err := s.store.Notifications().MarkAllRead(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, user *model.User) (int, error) {
	n, err := s.store.Notifications().CountUnread(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}
