// Package services holds application services that sit outside the
// command/query buses.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// Per-kind upload ceilings in bytes.
const (
	MaxImageBytes = 5 << 20
	MaxAudioBytes = 10 << 20
	MaxVideoBytes = 50 << 20
)

// MediaService validates uploads and dispatches them to the configured
// store.
type MediaService struct {
	store  ports.MediaStore
	logger *zap.Logger
}

// NewMediaService creates the service.
func NewMediaService(store ports.MediaStore, logger *zap.Logger) *MediaService {
	return &MediaService{store: store, logger: logger}
}

// Upload checks the declared content type and size against the per-kind
// ceilings, then hands the payload to the store. Rejections are upload
// errors, not internal ones.
func (s *MediaService) Upload(ctx context.Context, up ports.MediaUpload) (*memory.MediaItem, error) {
	kind := memory.KindFromContentType(up.ContentType)
	if kind == "" || kind == memory.MediaKindText {
		return nil, pkgerrors.NewUploadError(fmt.Sprintf("unsupported content type %q", up.ContentType))
	}

	limit := ceilingFor(kind)
	if up.Size <= 0 {
		return nil, pkgerrors.NewUploadError("upload size must be declared")
	}
	if up.Size > limit {
		return nil, pkgerrors.NewUploadError(fmt.Sprintf(
			"%s exceeds the %d MiB limit for %s uploads", up.Filename, limit>>20, kind))
	}

	item, err := s.store.Upload(ctx, up)
	if err != nil {
		return nil, err
	}

	s.logger.Info("media uploaded",
		zap.String("record_id", up.RecordID),
		zap.String("media_id", item.ID),
		zap.String("kind", string(item.Kind)),
		zap.Int64("size", up.Size))

	return item, nil
}

// Open resolves a stored media item to a readable stream.
func (s *MediaService) Open(ctx context.Context, item memory.MediaItem) (ports.MediaHandle, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.Kind == memory.MediaKindText {
		return nil, pkgerrors.NewValidationError("text media carries its content inline")
	}
	return s.store.Open(ctx, item)
}

func ceilingFor(kind memory.MediaKind) int64 {
	switch kind {
	case memory.MediaKindImage:
		return MaxImageBytes
	case memory.MediaKindAudio:
		return MaxAudioBytes
	case memory.MediaKindVideo:
		return MaxVideoBytes
	default:
		return 0
	}
}
