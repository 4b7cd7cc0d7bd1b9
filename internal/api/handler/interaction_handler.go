package handler

import (
	"net/http"

	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common"

	"github.com/go-chi/chi/v5"
)

type InteractionHandler struct {
	interactionService *service.InteractionService
}

func NewInteractionHandler(is *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: is}
}

// RegisterWritingRoutes mounts likes and bookmarks under /writings.
func (h *InteractionHandler) RegisterWritingRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{id}/like", h.like)
		authed.Delete("/{id}/like", h.unlike)
		authed.Post("/{id}/bookmark", h.bookmark)
		authed.Delete("/{id}/bookmark", h.removeBookmark)
	})
}

func (h *InteractionHandler) like(w http.ResponseWriter, r *http.Request) {
	writingID, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	like, err := h.interactionService.LikeWriting(r.Context(), middleware.CurrentUser(r.Context()), writingID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, like)
}

func (h *InteractionHandler) unlike(w http.ResponseWriter, r *http.Request) {
	writingID, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	if err := h.interactionService.UnlikeWriting(r.Context(), middleware.CurrentUser(r.Context()), writingID); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InteractionHandler) bookmark(w http.ResponseWriter, r *http.Request) {
	writingID, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	bookmark, err := h.interactionService.BookmarkWriting(r.Context(), middleware.CurrentUser(r.Context()), writingID)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, bookmark)
}

func (h *InteractionHandler) removeBookmark(w http.ResponseWriter, r *http.Request) {
	writingID, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	if err := h.interactionService.RemoveBookmark(r.Context(), middleware.CurrentUser(r.Context()), writingID); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBookmarks serves GET /bookmarks for the signed-in user.
func (h *InteractionHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.interactionService.ListBookmarks(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, bookmarks)
}
