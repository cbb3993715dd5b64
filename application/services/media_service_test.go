package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
	"github.com/Xazratbek/storybridge-net/tests/mocks"
)

func upload(contentType string, size int64) ports.MediaUpload {
	return ports.MediaUpload{
		RecordID:    "rec-1",
		Filename:    "file.bin",
		ContentType: contentType,
		Size:        size,
		Body:        strings.NewReader("payload"),
	}
}

func TestMediaService_UploadWithinLimit(t *testing.T) {
	store := new(mocks.MockMediaStore)
	svc := NewMediaService(store, zap.NewNop())

	stored := &memory.MediaItem{ID: "media-1", Kind: memory.MediaKindImage, Locator: "https://cdn/x.png"}
	store.On("Upload", mock.Anything, mock.AnythingOfType("ports.MediaUpload")).Return(stored, nil)

	item, err := svc.Upload(context.Background(), upload("image/png", 1<<20))
	require.NoError(t, err)
	assert.Equal(t, "media-1", item.ID)
	store.AssertExpectations(t)
}

func TestMediaService_UploadCeilings(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     bool
	}{
		{"image at limit", "image/jpeg", MaxImageBytes, false},
		{"image over limit", "image/jpeg", MaxImageBytes + 1, true},
		{"audio at limit", "audio/mpeg", MaxAudioBytes, false},
		{"audio over limit", "audio/mpeg", MaxAudioBytes + 1, true},
		{"video at limit", "video/mp4", MaxVideoBytes, false},
		{"video over limit", "video/mp4", MaxVideoBytes + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockMediaStore)
			svc := NewMediaService(store, zap.NewNop())
			if !tt.wantErr {
				stored := &memory.MediaItem{ID: "m", Kind: memory.KindFromContentType(tt.contentType), Locator: "blob:m"}
				store.On("Upload", mock.Anything, mock.Anything).Return(stored, nil)
			}

			_, err := svc.Upload(context.Background(), upload(tt.contentType, tt.size))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsUpload(err))
				store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMediaService_RejectsUnsupportedTypes(t *testing.T) {
	store := new(mocks.MockMediaStore)
	svc := NewMediaService(store, zap.NewNop())

	_, err := svc.Upload(context.Background(), upload("application/zip", 100))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUpload(err))

	// text attachments are inline, never uploaded
	_, err = svc.Upload(context.Background(), upload("text/plain", 100))
	assert.True(t, pkgerrors.IsUpload(err))
}

func TestMediaService_RejectsUndeclaredSize(t *testing.T) {
	store := new(mocks.MockMediaStore)
	svc := NewMediaService(store, zap.NewNop())

	_, err := svc.Upload(context.Background(), upload("image/png", 0))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUpload(err))
}

func TestMediaService_OpenReturnsClosableHandle(t *testing.T) {
	store := new(mocks.MockMediaStore)
	svc := NewMediaService(store, zap.NewNop())

	item := memory.MediaItem{Kind: memory.MediaKindAudio, Locator: "blob:media-9"}
	handle := &mocks.MockMediaHandle{Reader: strings.NewReader("audio-bytes"), Type: "audio/mpeg"}
	store.On("Open", mock.Anything, item).Return(handle, nil)

	h, err := svc.Open(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", h.ContentType())
	require.NoError(t, h.Close())
	assert.True(t, handle.Closed)
}

func TestMediaService_OpenRejectsTextItems(t *testing.T) {
	svc := NewMediaService(new(mocks.MockMediaStore), zap.NewNop())

	_, err := svc.Open(context.Background(), memory.MediaItem{Kind: memory.MediaKindText, Content: "inline"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
