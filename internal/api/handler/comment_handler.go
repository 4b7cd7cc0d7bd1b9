package handler

import (
	"net/http"

	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common"

	"github.com/go-chi/chi/v5"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(cs *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: cs}
}

// RegisterWritingRoutes mounts the comment thread under /writings.
func (h *CommentHandler) RegisterWritingRoutes(r chi.Router) {
	r.Get("/{id}/comments", h.listComments)
	r.With(middleware.Authenticator).Post("/{id}/comments", h.createComment)
}

// RegisterRoutes mounts under /comments.
func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.Authenticator).Delete("/{id}", h.deleteComment)
}

func (h *CommentHandler) listComments(w http.ResponseWriter, r *http.Request) {
	writingID, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	comments, err := h.commentService.ListComments(r.Context(), writingID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) createComment(w http.ResponseWriter, r *http.Request) {
	writingID, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	var req service.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	comment, err := h.commentService.CreateComment(r.Context(), middleware.CurrentUser(r.Context()), writingID, req)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	if err := h.commentService.DeleteComment(r.Context(), middleware.CurrentUser(r.Context()), id); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
