package repository

import (
	"context"
	"fmt"
	"strings"

	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type WritingRepository interface {
	Create(ctx context.Context, writing *model.Writing) error
	FindByID(ctx context.Context, id int64) (*model.Writing, error)
	// Update merges upd and always refreshes UpdatedAt.
	Update(ctx context.Context, id int64, upd model.WritingUpdate) (*model.Writing, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]model.Writing, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Writing, error)
	ListFeatured(ctx context.Context) ([]model.Writing, error)
	ListByCategory(ctx context.Context, category string) ([]model.Writing, error)
	ListByTag(ctx context.Context, tag string) ([]model.Writing, error)
	Search(ctx context.Context, query string) ([]model.Writing, error)
}

type sqlWritingRepository struct {
	q sqlx.ExtContext
}

const writingColumns = `id, user_id, title, slug, content, description, cover_image, category, tags, is_featured, read_time, created_at, updated_at`

func (r *sqlWritingRepository) Create(ctx context.Context, w *model.Writing) error {
	w.CreatedAt = now()
	w.UpdatedAt = w.CreatedAt
	w.EncodeTags()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO writings (user_id, title, slug, content, description, cover_image, category, tags, is_featured, read_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		w.UserID, w.Title, w.Slug, w.Content, w.Description, w.CoverImage, w.Category, w.TagsJSON,
		w.IsFeatured, w.ReadTime, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return wrapWriteErr("sqlWritingRepository.Create", err)
	}
	w.ID = id
	return nil
}

func (r *sqlWritingRepository) FindByID(ctx context.Context, id int64) (*model.Writing, error) {
	w := &model.Writing{}
	if err := getOne(ctx, r.q, w, `SELECT `+writingColumns+` FROM writings WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("sqlWritingRepository.FindByID: %w", err)
	}
	w.DecodeTags()
	return w, nil
}

func (r *sqlWritingRepository) Update(ctx context.Context, id int64, upd model.WritingUpdate) (*model.Writing, error) {
	w, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(w)
	w.UpdatedAt = now()
	w.EncodeTags()
	_, err = execAffected(ctx, r.q,
		`UPDATE writings SET title = ?, slug = ?, content = ?, description = ?, cover_image = ?, category = ?,
		 tags = ?, is_featured = ?, read_time = ?, updated_at = ? WHERE id = ?`,
		w.Title, w.Slug, w.Content, w.Description, w.CoverImage, w.Category,
		w.TagsJSON, w.IsFeatured, w.ReadTime, w.UpdatedAt, id)
	if err != nil {
		return nil, wrapWriteErr("sqlWritingRepository.Update", err)
	}
	return w, nil
}

func (r *sqlWritingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := execAffected(ctx, r.q, `DELETE FROM writings WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sqlWritingRepository.Delete: %w", err)
	}
	return n > 0, nil
}

func (r *sqlWritingRepository) List(ctx context.Context) ([]model.Writing, error) {
	return r.list(ctx, "")
}

func (r *sqlWritingRepository) ListByUser(ctx context.Context, userID int64) ([]model.Writing, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID)
}

func (r *sqlWritingRepository) ListFeatured(ctx context.Context) ([]model.Writing, error) {
	return r.list(ctx, `WHERE is_featured = ?`, true)
}

// ListByCategory, ListByTag and Search scan every writing and match in Go.
// SQLite lower() folds ASCII only, so case-insensitive matching is not left to SQL.
func (r *sqlWritingRepository) ListByCategory(ctx context.Context, category string) ([]model.Writing, error) {
	return r.filter(ctx, func(w *model.Writing) bool { return strings.EqualFold(w.Category, category) })
}

func (r *sqlWritingRepository) ListByTag(ctx context.Context, tag string) ([]model.Writing, error) {
	return r.filter(ctx, func(w *model.Writing) bool { return w.HasTag(tag) })
}

func (r *sqlWritingRepository) Search(ctx context.Context, query string) ([]model.Writing, error) {
	return r.filter(ctx, func(w *model.Writing) bool { return w.Matches(query) })
}

func (r *sqlWritingRepository) filter(ctx context.Context, keep func(w *model.Writing) bool) ([]model.Writing, error) {
	all, err := r.list(ctx, "")
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (r *sqlWritingRepository) list(ctx context.Context, where string, args ...interface{}) ([]model.Writing, error) {
	writings := []model.Writing{}
	if err := selectAll(ctx, r.q, &writings, `SELECT `+writingColumns+` FROM writings `+where+` ORDER BY id`, args...); err != nil {
		return nil, fmt.Errorf("sqlWritingRepository.list: %w", err)
	}
	for i := range writings {
		writings[i].DecodeTags()
	}
	return writings, nil
}
