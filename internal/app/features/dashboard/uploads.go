package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// maxUploadSize caps a single media upload.
const maxUploadSize = 10 << 20

// MediaStore is the part of the file storage backend uploads need.
type MediaStore interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	URL(path string) string
}

// imageTypes maps accepted content types to the extension used when the
// uploaded file name has none.
var imageTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// upload stores an image on the media host and answers {url}.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		jsonutil.Fail(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonutil.BadRequest(w, "File too large (max 10 MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "Please select a file to upload")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	defExt, ok := imageTypes[contentType]
	if !ok {
		jsonutil.BadRequest(w, "Only JPEG, PNG, GIF, WebP and SVG images can be uploaded")
		return
	}

	// media/YYYY/MM/uuid.ext
	now := time.Now().UTC()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = defExt
	}
	path := fmt.Sprintf("media/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String()[:8], ext)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.logger, "upload media")
	defer cancel()

	if err := h.media.Put(ctx, path, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.errLog.Log(r, "failed to upload file", err)
		jsonutil.InternalError(w, "Failed to upload file")
		return
	}

	jsonutil.Created(w, "File uploaded", map[string]string{
		"url":  h.media.URL(path),
		"path": path,
	})
}
