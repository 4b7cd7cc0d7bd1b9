package service

import (
	"context"
	"fmt"

	"pencraft/internal/common"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"
)

type CommentService struct {
	store repository.Store
}

func NewCommentService(store repository.Store) *CommentService {
	return &CommentService{store: store}
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

func (s *CommentService) ListComments(ctx context.Context, writingID int64) ([]model.CommentView, error) {
	comments, err := s.store.Comments().ListByWriting(ctx, writingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	views := make([]model.CommentView, 0, len(comments))
	for _, c := range comments {
		author, err := findUserOrNil(ctx, s.store, c.UserID)
		if err != nil {
			return nil, err
		}
		views = append(views, model.CommentView{Comment: c, Author: model.NewAuthorSummary(author)})
	}
	return views, nil
}

// CreateComment stores the comment and notifies the writing's author in one transaction.
func (s *CommentService) CreateComment(ctx context.Context, actor *model.User, writingID int64, req CreateCommentRequest) (*model.CommentView, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	comment := &model.Comment{UserID: actor.ID, WritingID: writingID, Content: req.Content}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		w, err := tx.Writings().FindByID(ctx, writingID)
		if err != nil {
			return notFoundAs(err, "writing")
		}
		if err := tx.Comments().Create(ctx, comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return notify(ctx, tx, w.UserID, actor.ID, model.NotificationComment,
			fmt.Sprintf(`%s commented on your writing "%s"`, actor.FullName, w.Title),
			map[string]interface{}{"commentId": comment.ID, "writingId": w.ID, "commenterId": actor.ID})
	})
	if err != nil {
		return nil, err
	}
	return &model.CommentView{Comment: *comment, Author: model.NewAuthorSummary(actor)}, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, actor *model.User, id int64) error {
	c, err := s.store.Comments().FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "comment")
	}
	if c.UserID != actor.ID && !actor.IsAdmin {
		return common.Errorf("not the author of comment %d: %w", id, common.ErrForbidden)
	}
	if _, err := s.store.Comments().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
