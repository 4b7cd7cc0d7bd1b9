package handler

import (
	"net/http"

	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(ns *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// RegisterRoutes mounts under /notifications. Every route needs a session.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.list)
	r.Put("/", h.markAllRead)
	r.Get("/unread-count", h.unreadCount)
	r.Put("/{id}/read", h.markRead)
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.List(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	n, err := h.notificationService.MarkRead(r.Context(), middleware.CurrentUser(r.Context()), id)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) markAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.notificationService.MarkAllRead(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func (h *NotificationHandler) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.UnreadCount(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"count": count})
}
