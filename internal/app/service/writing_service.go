package service

import (
	"context"
	"fmt"
	"strings"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"

	"github.com/gosimple/slug"
)

// Categories is the fixed list offered to authors.
var Categories = []string{
	"Fiction",
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Poetry",
	"Essays",
	"Memoir",
}

type WritingService struct {
	store repository.Store
}

func NewWritingService(store repository.Store) *WritingService {
	return &WritingService{store: store}
}

// WritingFilter selects writings for a listing. Only the first set field
// applies, in the order Featured, Category, Tag, UserID, Search.
type WritingFilter struct {
	Featured bool
	Category string
	Tag      string
	UserID   *int64
	Search   string
}

type CreateWritingRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Content     string   `json:"content" validate:"required"`
	Description string   `json:"description" validate:"required,max=500"`
	CoverImage  *string  `json:"coverImage" validate:"omitempty,url"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
	ReadTime    *int     `json:"readTime" validate:"omitempty,min=1"`
}

// UpdateWritingRequest carries content fields only; featuring goes through FeatureWriting.
type UpdateWritingRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Content     *string   `json:"content" validate:"omitempty,min=1"`
	Description *string   `json:"description" validate:"omitempty,min=1,max=500"`
	CoverImage  *string   `json:"coverImage" validate:"omitempty,url"`
	Category    *string   `json:"category" validate:"omitempty,min=1"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
	ReadTime    *int      `json:"readTime" validate:"omitempty,min=1"`
}

func (s *WritingService) ListWritings(ctx context.Context, f WritingFilter) ([]model.WritingView, error) {
	var (
		writings []model.Writing
		err      error
	)
	repo := s.store.Writings()
	switch {
	case f.Featured:
		writings, err = repo.ListFeatured(ctx)
	case f.Category != "":
		writings, err = repo.ListByCategory(ctx, f.Category)
	case f.Tag != "":
		writings, err = repo.ListByTag(ctx, f.Tag)
	case f.UserID != nil:
		writings, err = repo.ListByUser(ctx, *f.UserID)
	case f.Search != "":
		writings, err = repo.Search(ctx, f.Search)
	default:
		writings, err = repo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list writings: %w", err)
	}
	return viewWritings(ctx, s.store, writings)
}

// GetWriting returns the writing with author bio, stats and, for a signed-in
// viewer, whether they liked or bookmarked it.
func (s *WritingService) GetWriting(ctx context.Context, id int64, viewer *model.User) (*model.WritingDetail, error) {
	w, err := s.store.Writings().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "writing")
	}
	view, err := viewWriting(ctx, s.store, *w)
	if err != nil {
		return nil, err
	}
	if view.Author != nil {
		author, err := findUserOrNil(ctx, s.store, w.UserID)
		if err != nil {
			return nil, err
		}
		if author != nil {
			view.Author.Bio = author.Bio
		}
	}

	detail := &model.WritingDetail{WritingView: view}
	if viewer != nil {
		_, err = s.store.Likes().Find(ctx, viewer.ID, id)
		if detail.UserInteraction.Liked, err = found(err); err != nil {
			return nil, err
		}
		_, err = s.store.Bookmarks().Find(ctx, viewer.ID, id)
		if detail.UserInteraction.Bookmarked, err = found(err); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *WritingService) CreateWriting(ctx context.Context, author *model.User, req CreateWritingRequest) (*model.Writing, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	w := newWriting(author.ID, req)
	if err := s.store.Writings().Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create writing: %w", err)
	}
	return w, nil
}

func newWriting(userID int64, req CreateWritingRequest) *model.Writing {
	w := &model.Writing{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Category:    req.Category,
		Tags:        req.Tags,
	}
	w.Slug = slug.Make(w.Title)
	if req.ReadTime != nil {
		w.ReadTime = *req.ReadTime
	} else {
		w.ReadTime = model.EstimateReadTime(req.Content)
	}
	return w
}

func (s *WritingService) UpdateWriting(ctx context.Context, actor *model.User, id int64, req UpdateWritingRequest) (*model.Writing, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	w, err := s.ownedWriting(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	upd := model.WritingUpdate{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Category:    req.Category,
		Tags:        req.Tags,
		ReadTime:    req.ReadTime,
	}
	if req.Title != nil && *req.Title != w.Title {
		newSlug := slug.Make(*req.Title)
		upd.Slug = &newSlug
	}
	if req.Content != nil && req.ReadTime == nil {
		readTime := model.EstimateReadTime(*req.Content)
		upd.ReadTime = &readTime
	}

	updated, err := s.store.Writings().Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update writing: %w", err)
	}
	return updated, nil
}

// DeleteWriting removes the writing only; its comments, likes and bookmarks stay.
func (s *WritingService) DeleteWriting(ctx context.Context, actor *model.User, id int64) error {
	if _, err := s.ownedWriting(ctx, actor, id); err != nil {
		return err
	}
	removed, err := s.store.Writings().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete writing: %w", err)
	}
	if !removed {
		return common.Errorf("writing not found: %w", common.ErrNotFound)
	}
	return nil
}

// FeatureWriting sets the featured flag and tells the author when it is turned on.
func (s *WritingService) FeatureWriting(ctx context.Context, admin *model.User, id int64, feature bool) (*model.Writing, error) {
	var updated *model.Writing
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		w, err := tx.Writings().FindByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "writing")
		}
		updated, err = tx.Writings().Update(ctx, id, model.WritingUpdate{IsFeatured: &feature})
		if err != nil {
			return fmt.Errorf("failed to update writing: %w", err)
		}
		if !feature {
			return nil
		}
		return notify(ctx, tx, w.UserID, admin.ID, model.NotificationFeatured,
			fmt.Sprintf(`Your writing "%s" has been featured!`, w.Title),
			map[string]interface{}{"writingId": w.ID})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *WritingService) ownedWriting(ctx context.Context, actor *model.User, id int64) (*model.Writing, error) {
	w, err := s.store.Writings().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "writing")
	}
	if w.UserID != actor.ID && !actor.IsAdmin {
		return nil, common.Errorf("not the author of writing %d: %w", id, common.ErrForbidden)
	}
	return w, nil
}
