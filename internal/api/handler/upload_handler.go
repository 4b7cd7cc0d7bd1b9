package handler

import (
	"net/http"

	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common"

	"github.com/go-chi/chi/v5"
)

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(us *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: us}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// RegisterRoutes mounts under /uploads.
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.Authenticator).Post("/", h.uploadImage)
}

func (h *UploadHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageSize+maxBodySize)
	if err := r.ParseMultipartForm(service.MaxImageSize); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	url, err := h.uploadService.UploadImage(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		common.RespondWithErr(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, uploadResponse{URL: url})
}
