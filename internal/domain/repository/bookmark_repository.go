package repository

import (
	"context"
	"fmt"

	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *model.Bookmark) error
	Find(ctx context.Context, userID, writingID int64) (*model.Bookmark, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error)
	Delete(ctx context.Context, userID, writingID int64) (bool, error)
}

type sqlBookmarkRepository struct {
	q sqlx.ExtContext
}

func (r *sqlBookmarkRepository) Create(ctx context.Context, b *model.Bookmark) error {
	b.CreatedAt = now()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO bookmarks (user_id, writing_id, created_at) VALUES (?, ?, ?) RETURNING id`,
		b.UserID, b.WritingID, b.CreatedAt)
	if err != nil {
		return wrapWriteErr("sqlBookmarkRepository.Create", err)
	}
	b.ID = id
	return nil
}

func (r *sqlBookmarkRepository) Find(ctx context.Context, userID, writingID int64) (*model.Bookmark, error) {
	b := &model.Bookmark{}
	err := getOne(ctx, r.q, b,
		`SELECT id, user_id, writing_id, created_at FROM bookmarks WHERE user_id = ? AND writing_id = ?`, userID, writingID)
	if err != nil {
		return nil, fmt.Errorf("sqlBookmarkRepository.Find: %w", err)
	}
	return b, nil
}

func (r *sqlBookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	bookmarks := []model.Bookmark{}
	err := selectAll(ctx, r.q, &bookmarks,
		`SELECT id, user_id, writing_id, created_at FROM bookmarks WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlBookmarkRepository.ListByUser: %w", err)
	}
	return bookmarks, nil
}

func (r *sqlBookmarkRepository) Delete(ctx context.Context, userID, writingID int64) (bool, error) {
	n, err := execAffected(ctx, r.q, `DELETE FROM bookmarks WHERE user_id = ? AND writing_id = ?`, userID, writingID)
	if err != nil {
		return false, fmt.Errorf("sqlBookmarkRepository.Delete: %w", err)
	}
	return n > 0, nil
}
