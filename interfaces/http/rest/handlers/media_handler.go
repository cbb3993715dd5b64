package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/application/services"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	"github.com/Xazratbek/storybridge-net/pkg/auth"
	"github.com/Xazratbek/storybridge-net/pkg/common"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// multipart parsing buffer; actual payload ceilings are enforced per kind
// by the media service.
const maxMultipartMemory = 8 << 20

// MediaHandler serves attachment upload and streaming.
type MediaHandler struct {
	media    *services.MediaService
	memories ports.MemoryRepository
	loginURL string
	logger   *zap.Logger
}

// NewMediaHandler creates the handler.
func NewMediaHandler(media *services.MediaService, memories ports.MemoryRepository, loginURL string, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		media:    media,
		memories: memories,
		loginURL: loginURL,
		logger:   logger,
	}
}

// Upload handles POST /memories/{memoryID}/media with a multipart "file"
// part. The response is the stored media item, locator included, ready to
// be embedded in a subsequent memory update.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	memoryID := chi.URLParam(r, "memoryID")
	m, err := h.memories.GetByID(r.Context(), memoryID)
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}
	if m == nil {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "memory not found")
		return
	}
	if m.AuthorID != session.UserID {
		common.RespondAppError(w, pkgerrors.NewForbiddenError("memory belongs to another user"), h.loginURL)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "expected multipart form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "missing file part")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	item, err := h.media.Upload(r.Context(), ports.MediaUpload{
		RecordID:    memoryID,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	common.RespondJSON(w, http.StatusCreated, mediaItemBody{
		ID:          item.ID,
		Type:        string(item.Kind),
		URL:         item.Locator,
		Filename:    item.Filename,
		ContentType: item.ContentType,
	})
}

// Stream handles GET /memories/{memoryID}/media/{mediaID} and writes the
// raw payload. Text items are returned inline as text/plain.
func (h *MediaHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.GetSessionFromContext(r.Context()); err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	memoryID := chi.URLParam(r, "memoryID")
	mediaID := chi.URLParam(r, "mediaID")

	m, err := h.memories.GetByID(r.Context(), memoryID)
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}
	if m == nil {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "memory not found")
		return
	}

	for _, item := range m.MediaItems {
		if item.ID != mediaID {
			continue
		}

		if item.Kind == memory.MediaKindText {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, item.Content)
			return
		}

		handle, err := h.media.Open(r.Context(), item)
		if err != nil {
			common.RespondAppError(w, err, h.loginURL)
			return
		}
		defer handle.Close()

		if ct := handle.ContentType(); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(http.StatusOK)
		if n, err := io.Copy(w, handle); err != nil {
			h.logger.Warn("media stream interrupted",
				zap.String("media_id", mediaID),
				zap.Int64("written", n),
				zap.Error(err))
		}
		return
	}

	common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "media item not found")
}
