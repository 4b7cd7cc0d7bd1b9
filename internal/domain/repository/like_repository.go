package repository

import (
	"context"
	"fmt"

	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

// LikeRepository keeps at most one like per (user, writing); a second Create
// fails with common.ErrConflict.
type LikeRepository interface {
	Create(ctx context.Context, like *model.Like) error
	Find(ctx context.Context, userID, writingID int64) (*model.Like, error)
	ListByWriting(ctx context.Context, writingID int64) ([]model.Like, error)
	CountByWriting(ctx context.Context, writingID int64) (int, error)
	Delete(ctx context.Context, userID, writingID int64) (bool, error)
}

type sqlLikeRepository struct {
	q sqlx.ExtContext
}

func (r *sqlLikeRepository) Create(ctx context.Context, l *model.Like) error {
	l.CreatedAt = now()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO likes (user_id, writing_id, created_at) VALUES (?, ?, ?) RETURNING id`,
		l.UserID, l.WritingID, l.CreatedAt)
	if err != nil {
		return wrapWriteErr("sqlLikeRepository.Create", err)
	}
	l.ID = id
	return nil
}

func (r *sqlLikeRepository) Find(ctx context.Context, userID, writingID int64) (*model.Like, error) {
	l := &model.Like{}
	err := getOne(ctx, r.q, l,
		`SELECT id, user_id, writing_id, created_at FROM likes WHERE user_id = ? AND writing_id = ?`, userID, writingID)
	if err != nil {
		return nil, fmt.Errorf("sqlLikeRepository.Find: %w", err)
	}
	return l, nil
}

func (r *sqlLikeRepository) ListByWriting(ctx context.Context, writingID int64) ([]model.Like, error) {
	likes := []model.Like{}
	err := selectAll(ctx, r.q, &likes,
		`SELECT id, user_id, writing_id, created_at FROM likes WHERE writing_id = ? ORDER BY id`, writingID)
	if err != nil {
		return nil, fmt.Errorf("sqlLikeRepository.ListByWriting: %w", err)
	}
	return likes, nil
}

func (r *sqlLikeRepository) CountByWriting(ctx context.Context, writingID int64) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM likes WHERE writing_id = ?`, writingID)
	if err != nil {
		return 0, fmt.Errorf("sqlLikeRepository.CountByWriting: %w", err)
	}
	return n, nil
}

func (r *sqlLikeRepository) Delete(ctx context.Context, userID, writingID int64) (bool, error) {
	n, err := execAffected(ctx, r.q, `DELETE FROM likes WHERE user_id = ? AND writing_id = ?`, userID, writingID)
	if err != nil {
		return false, fmt.Errorf("sqlLikeRepository.Delete: %w", err)
	}
	return n > 0, nil
}
