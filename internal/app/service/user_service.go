package service

import (
	"context"
	"errors"
	"fmt"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

type UpdateProfileRequest struct {
	FullName     *string `json:"fullName" validate:"omitempty,min=1,max=100"`
	Bio          *string `json:"bio" validate:"omitempty,max=1000"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,url"`
}

// GetProfile returns the public profile of id. isFollowing is computed for a
// signed-in viewer only.
func (s *UserService) GetProfile(ctx context.Context, id int64, viewer *model.User) (*model.UserProfile, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "user")
	}
	writings, err := s.store.Writings().ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list writings: %w", err)
	}
	followers, err := s.store.Follows().ListFollowers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	following, err := s.store.Follows().ListFollowing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}

	profile := &model.UserProfile{
		User: *user,
		Stats: model.ProfileStats{
			WritingsCount:  len(writings),
			FollowersCount: len(followers),
			FollowingCount: len(following),
		},
	}
	if viewer != nil {
		_, err := s.store.Follows().Find(ctx, viewer.ID, id)
		if profile.IsFollowing, err = found(err); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *model.User, req UpdateProfileRequest) (*model.User, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	user, err := s.store.Users().Update(ctx, actor.ID, model.UserUpdate{
		FullName:     req.FullName,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return nil, notFoundAs(err, "user")
	}
	return user, nil
}

func (s *UserService) Follow(ctx context.Context, actor *model.User, targetID int64) (*model.Follow, error) {
	if targetID == actor.ID {
		return nil, common.Errorf("you cannot follow yourself: %w", common.ErrBadRequest)
	}
	follow := &model.Follow{FollowerID: actor.ID, FollowingID: targetID}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, targetID); err != nil {
			return notFoundAs(err, "user")
		}
		if _, err := tx.Follows().Find(ctx, actor.ID, targetID); err == nil {
			return common.Errorf("already following: %w", common.ErrAlreadyExists)
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if err := tx.Follows().Create(ctx, follow); err != nil {
			return alreadyExists(err, "already following")
		}
		return notify(ctx, tx, targetID, actor.ID, model.NotificationFollow,
			fmt.Sprintf("%s started following you", actor.FullName),
			map[string]interface{}{"followId": follow.ID, "followerId": actor.ID})
	})
	if err != nil {
		return nil, err
	}
	return follow, nil
}

func (s *UserService) Unfollow(ctx context.Context, actor *model.User, targetID int64) error {
	removed, err := s.store.Follows().Delete(ctx, actor.ID, targetID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	if !removed {
		return common.Errorf("follow not found: %w", common.ErrNotFound)
	}
	return nil
}

func (s *UserService) ListFollowers(ctx context.Context, userID int64) ([]model.FollowUser, error) {
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		return nil, notFoundAs(err, "user")
	}
	follows, err := s.store.Follows().ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return s.followUsers(ctx, follows, func(f model.Follow) int64 { return f.FollowerID })
}

func (s *UserService) ListFollowing(ctx context.Context, userID int64) ([]model.FollowUser, error) {
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		return nil, notFoundAs(err, "user")
	}
	follows, err := s.store.Follows().ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return s.followUsers(ctx, follows, func(f model.Follow) int64 { return f.FollowingID })
}

func (s *UserService) followUsers(ctx context.Context, follows []model.Follow, other func(model.Follow) int64) ([]model.FollowUser, error) {
	out := make([]model.FollowUser, 0, len(follows))
	for _, f := range follows {
		u, err := findUserOrNil(ctx, s.store, other(f))
		if err != nil {
			return nil, err
		}
		if u == nil {
			continue
		}
		out = append(out, model.FollowUser{
			ID:           u.ID,
			Username:     u.Username,
			FullName:     u.FullName,
			ProfileImage: u.ProfileImage,
			Bio:          u.Bio,
			FollowedAt:   f.CreatedAt,
		})
	}
	return out, nil
}

// ListUsers returns every account for the admin console.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
