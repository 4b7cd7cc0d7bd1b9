package repository

import (
	"context"
	"fmt"

	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	ListByWriting(ctx context.Context, writingID int64) ([]model.Comment, error)
	CountByWriting(ctx context.Context, writingID int64) (int, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type sqlCommentRepository struct {
	q sqlx.ExtContext
}

func (r *sqlCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	c.CreatedAt = now()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO comments (user_id, writing_id, content, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		c.UserID, c.WritingID, c.Content, c.CreatedAt)
	if err != nil {
		return wrapWriteErr("sqlCommentRepository.Create", err)
	}
	c.ID = id
	return nil
}

func (r *sqlCommentRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	c := &model.Comment{}
	if err := getOne(ctx, r.q, c, `SELECT id, user_id, writing_id, content, created_at FROM comments WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("sqlCommentRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *sqlCommentRepository) ListByWriting(ctx context.Context, writingID int64) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := selectAll(ctx, r.q, &comments,
		`SELECT id, user_id, writing_id, content, created_at FROM comments WHERE writing_id = ? ORDER BY id`, writingID)
	if err != nil {
		return nil, fmt.Errorf("sqlCommentRepository.ListByWriting: %w", err)
	}
	return comments, nil
}

func (r *sqlCommentRepository) CountByWriting(ctx context.Context, writingID int64) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM comments WHERE writing_id = ?`, writingID)
	if err != nil {
		return 0, fmt.Errorf("sqlCommentRepository.CountByWriting: %w", err)
	}
	return n, nil
}

func (r *sqlCommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := execAffected(ctx, r.q, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sqlCommentRepository.Delete: %w", err)
	}
	return n > 0, nil
}
