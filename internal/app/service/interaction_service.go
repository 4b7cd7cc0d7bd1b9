package service

import (
	"context"
	"errors"
	"fmt"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"
)

// InteractionService handles likes and bookmarks.
type InteractionService struct {
	store repository.Store
}

func NewInteractionService(store repository.Store) *InteractionService {
	return &InteractionService{store: store}
}

func (s *InteractionService) LikeWriting(ctx context.Context, actor *model.User, writingID int64) (*model.Like, error) {
	like := &model.Like{UserID: actor.ID, WritingID: writingID}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		w, err := tx.Writings().FindByID(ctx, writingID)
		if err != nil {
			return notFoundAs(err, "writing")
		}
		if _, err := tx.Likes().Find(ctx, actor.ID, writingID); err == nil {
			return common.Errorf("already liked: %w", common.ErrAlreadyExists)
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if err := tx.Likes().Create(ctx, like); err != nil {
			return alreadyExists(err, "already liked")
		}
		return notify(ctx, tx, w.UserID, actor.ID, model.NotificationLike,
			fmt.Sprintf(`%s liked your writing "%s"`, actor.FullName, w.Title),
			map[string]interface{}{"likeId": like.ID, "writingId": w.ID, "likerId": actor.ID})
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}

func (s *InteractionService) UnlikeWriting(ctx context.Context, actor *model.User, writingID int64) error {
	removed, err := s.store.Likes().Delete(ctx, actor.ID, writingID)
	if err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	if !removed {
		return common.Errorf("like not found: %w", common.ErrNotFound)
	}
	return nil
}

func (s *InteractionService) BookmarkWriting(ctx context.Context, actor *model.User, writingID int64) (*model.Bookmark, error) {
	bookmark := &model.Bookmark{UserID: actor.ID, WritingID: writingID}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		w, err := tx.Writings().FindByID(ctx, writingID)
		if err != nil {
			return notFoundAs(err, "writing")
		}
		if _, err := tx.Bookmarks().Find(ctx, actor.ID, writingID); err == nil {
			return common.Errorf("already bookmarked: %w", common.ErrAlreadyExists)
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if err := tx.Bookmarks().Create(ctx, bookmark); err != nil {
			return alreadyExists(err, "already bookmarked")
		}
		return notify(ctx, tx, w.UserID, actor.ID, model.NotificationBookmark,
			fmt.Sprintf(`%s bookmarked your writing "%s"`, actor.FullName, w.Title),
			map[string]interface{}{"bookmarkId": bookmark.ID, "writingId": w.ID, "bookmarkerId": actor.ID})
	})
	if err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (s *InteractionService) RemoveBookmark(ctx context.Context, actor *model.User, writingID int64) error {
	removed, err := s.store.Bookmarks().Delete(ctx, actor.ID, writingID)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if !removed {
		return common.Errorf("bookmark not found: %w", common.ErrNotFound)
	}
	return nil
}

// ListBookmarks returns the actor's bookmarks with their writings, skipping
// bookmarks whose writing was deleted.
func (s *InteractionService) ListBookmarks(ctx context.Context, actor *model.User) ([]model.BookmarkView, error) {
	bookmarks, err := s.store.Bookmarks().ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	views := make([]model.BookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		w, err := findWritingOrNil(ctx, s.store, b.WritingID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			continue
		}
		wv, err := viewWriting(ctx, s.store, *w)
		if err != nil {
			return nil, err
		}
		views = append(views, model.BookmarkView{Bookmark: b, Writing: wv})
	}
	return views, nil
}
