package service

import (
	"context"
	"io"
	"path"
	"strings"

	"pencraft/internal/common"
	"pencraft/internal/platform/objectstore"

	"github.com/google/uuid"
)

// MaxImageSize caps a single uploaded image.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService struct {
	objects objectstore.ObjectStore
}

// NewUploadService accepts a nil store, in which case every upload fails with
// ErrServiceUnavailable.
func NewUploadService(objects objectstore.ObjectStore) *UploadService {
	return &UploadService{objects: objects}
}

// UploadImage stores an image under a random name and returns its public URL.
func (s *UploadService) UploadImage(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if s.objects == nil {
		return "", common.Errorf("object storage is not configured: %w", common.ErrServiceUnavailable)
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", common.Errorf("unsupported image type %q: %w", contentType, common.ErrBadRequest)
	}
	if size <= 0 || size > MaxImageSize {
		return "", common.Errorf("image must be between 1 byte and %d bytes: %w", MaxImageSize, common.ErrBadRequest)
	}
	if contentType == "image/jpeg" && strings.EqualFold(path.Ext(filename), ".jpeg") {
		ext = ".jpeg"
	}
	name := "images/" + uuid.NewString() + ext
	return s.objects.Put(ctx, name, r, size, contentType)
}
