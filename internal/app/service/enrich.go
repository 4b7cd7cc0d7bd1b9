package service

import (
	"context"
	"errors"
	"fmt"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"
)

// findUserOrNil returns nil for a user that no longer exists.
func findUserOrNil(ctx context.Context, store repository.Store, id int64) (*model.User, error) {
	u, err := store.Users().FindByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func writingStats(ctx context.Context, store repository.Store, writingID int64) (model.WritingStats, error) {
	likes, err := store.Likes().CountByWriting(ctx, writingID)
	if err != nil {
		return model.WritingStats{}, fmt.Errorf("count likes: %w", err)
	}
	comments, err := store.Comments().CountByWriting(ctx, writingID)
	if err != nil {
		return model.WritingStats{}, fmt.Errorf("count comments: %w", err)
	}
	return model.WritingStats{Likes: likes, Comments: comments}, nil
}

// viewWriting attaches the author summary and stats to w.
func viewWriting(ctx context.Context, store repository.Store, w model.Writing) (model.WritingView, error) {
	author, err := findUserOrNil(ctx, store, w.UserID)
	if err != nil {
		return model.WritingView{}, err
	}
	stats, err := writingStats(ctx, store, w.ID)
	if err != nil {
		return model.WritingView{}, err
	}
	return model.WritingView{Writing: w, Author: model.NewAuthorSummary(author), Stats: stats}, nil
}

func viewWritings(ctx context.Context, store repository.Store, writings []model.Writing) ([]model.WritingView, error) {
	views := make([]model.WritingView, 0, len(writings))
	for _, w := range writings {
		v, err := viewWriting(ctx, store, w)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// findWritingOrNil returns nil for a writing that has been deleted.
func findWritingOrNil(ctx context.Context, store repository.Store, id int64) (*model.Writing, error) {
	w, err := store.Writings().FindByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	return w, err
}

// notify records a notification for recipient unless the actor is the recipient.
func notify(ctx context.Context, store repository.Store, recipient, actor int64, typ model.NotificationType, message string, metadata map[string]interface{}) error {
	if recipient == actor {
		return nil
	}
	n := &model.Notification{UserID: recipient, Type: typ, Message: message, Metadata: metadata}
	if err := store.Notifications().Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create %s notification: %w", typ, err)
	}
	return nil
}

// alreadyExists turns a unique constraint conflict raised during a race into
// the same error the existence pre-check returns.
func alreadyExists(err error, what string) error {
	if errors.Is(err, common.ErrConflict) {
		return common.Errorf("%s: %w", what, common.ErrAlreadyExists)
	}
	return err
}

// found reports whether a lookup succeeded, treating ErrNotFound as false.
func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// notFoundAs replaces a repository not-found error with one naming the resource.
func notFoundAs(err error, what string) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.Errorf("%s not found: %w", what, common.ErrNotFound)
	}
	return err
}
