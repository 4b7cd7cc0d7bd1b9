package handler

import (
	"net/http"
	"strconv"

	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common"

	"github.com/go-chi/chi/v5"
)

type WritingHandler struct {
	writingService *service.WritingService
}

func NewWritingHandler(ws *service.WritingService) *WritingHandler {
	return &WritingHandler{writingService: ws}
}

// RegisterRoutes mounts under /writings.
func (h *WritingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listWritings)
	r.Get("/{id}", h.getWriting)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.createWriting)
		authed.Put("/{id}", h.updateWriting)
		authed.Delete("/{id}", h.deleteWriting)
	})
}

func (h *WritingHandler) listWritings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.WritingFilter{
		Featured: q.Get("featured") == "true",
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
	}
	if s := q.Get("userId"); s != "" {
		userID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		filter.UserID = &userID
	}

	writings, err := h.writingService.ListWritings(r.Context(), filter)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, writings)
}

func (h *WritingHandler) getWriting(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	detail, err := h.writingService.GetWriting(r.Context(), id, middleware.CurrentUser(r.Context()))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *WritingHandler) createWriting(w http.ResponseWriter, r *http.Request) {
	var req service.CreateWritingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	writing, err := h.writingService.CreateWriting(r.Context(), middleware.CurrentUser(r.Context()), req)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, writing)
}

func (h *WritingHandler) updateWriting(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	var req service.UpdateWritingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	writing, err := h.writingService.UpdateWriting(r.Context(), middleware.CurrentUser(r.Context()), id, req)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, writing)
}

func (h *WritingHandler) deleteWriting(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	if err := h.writingService.DeleteWriting(r.Context(), middleware.CurrentUser(r.Context()), id); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories serves the fixed category list.
func (h *WritingHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, service.Categories)
}
