package handler

import (
	"net/http"

	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	userService    *service.UserService
	writingService *service.WritingService
}

func NewAdminHandler(us *service.UserService, ws *service.WritingService) *AdminHandler {
	return &AdminHandler{userService: us, writingService: ws}
}

type featureRequest struct {
	Feature bool `json:"feature"`
}

// RegisterRoutes mounts under /admin.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Get("/users", h.listUsers)
	r.Put("/writings/{id}/feature", h.featureWriting)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) featureWriting(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	var req featureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	writing, err := h.writingService.FeatureWriting(r.Context(), middleware.CurrentUser(r.Context()), id, req.Feature)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, writing)
}
