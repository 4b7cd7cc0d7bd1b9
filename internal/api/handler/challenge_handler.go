package handler

import (
	"net/http"

	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common"

	"github.com/go-chi/chi/v5"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

func NewChallengeHandler(cs *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs}
}

// RegisterRoutes mounts under /challenges.
func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listChallenges)
	r.Get("/{id}", h.getChallenge)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{id}/entries", h.submitEntry)

		authed.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminOnly)
			admin.Post("/", h.createChallenge)
			admin.Put("/{id}/entries/{entryId}/rank", h.rankEntry)
		})
	})
}

func (h *ChallengeHandler) listChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challengeService.ListChallenges(r.Context())
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) getChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	challenge, err := h.challengeService.GetChallenge(r.Context(), id)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenge)
}

func (h *ChallengeHandler) createChallenge(w http.ResponseWriter, r *http.Request) {
	var req service.CreateChallengeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	challenge, err := h.challengeService.CreateChallenge(r.Context(), req)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, challenge)
}

func (h *ChallengeHandler) submitEntry(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	var req service.CreateWritingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	entry, err := h.challengeService.SubmitEntry(r.Context(), middleware.CurrentUser(r.Context()), id, req)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, entry)
}

func (h *ChallengeHandler) rankEntry(w http.ResponseWriter, r *http.Request) {
	challengeID, err := urlID(r, "id")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	entryID, err := urlID(r, "entryId")
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	var req service.RankEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	entry, err := h.challengeService.RankEntry(r.Context(), middleware.CurrentUser(r.Context()), challengeID, entryID, req)
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entry)
}
