package repository

import (
	"context"
	"fmt"

	"pencraft/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type FollowRepository interface {
	Create(ctx context.Context, follow *model.Follow) error
	Find(ctx context.Context, followerID, followingID int64) (*model.Follow, error)
	// ListFollowers returns the follows pointing at userID.
	ListFollowers(ctx context.Context, userID int64) ([]model.Follow, error)
	// ListFollowing returns the follows made by userID.
	ListFollowing(ctx context.Context, userID int64) ([]model.Follow, error)
	Delete(ctx context.Context, followerID, followingID int64) (bool, error)
}

type sqlFollowRepository struct {
	q sqlx.ExtContext
}

const followColumns = `id, follower_id, following_id, created_at`

func (r *sqlFollowRepository) Create(ctx context.Context, f *model.Follow) error {
	f.CreatedAt = now()
	id, err := insertReturningID(ctx, r.q,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, ?) RETURNING id`,
		f.FollowerID, f.FollowingID, f.CreatedAt)
	if err != nil {
		return wrapWriteErr("sqlFollowRepository.Create", err)
	}
	f.ID = id
	return nil
}

func (r *sqlFollowRepository) Find(ctx context.Context, followerID, followingID int64) (*model.Follow, error) {
	f := &model.Follow{}
	err := getOne(ctx, r.q, f,
		`SELECT `+followColumns+` FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	if err != nil {
		return nil, fmt.Errorf("sqlFollowRepository.Find: %w", err)
	}
	return f, nil
}

func (r *sqlFollowRepository) ListFollowers(ctx context.Context, userID int64) ([]model.Follow, error) {
	follows := []model.Follow{}
	err := selectAll(ctx, r.q, &follows, `SELECT `+followColumns+` FROM follows WHERE following_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlFollowRepository.ListFollowers: %w", err)
	}
	return follows, nil
}

func (r *sqlFollowRepository) ListFollowing(ctx context.Context, userID int64) ([]model.Follow, error) {
	follows := []model.Follow{}
	err := selectAll(ctx, r.q, &follows, `SELECT `+followColumns+` FROM follows WHERE follower_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlFollowRepository.ListFollowing: %w", err)
	}
	return follows, nil
}

func (r *sqlFollowRepository) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	n, err := execAffected(ctx, r.q, `DELETE FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("sqlFollowRepository.Delete: %w", err)
	}
	return n > 0, nil
}
