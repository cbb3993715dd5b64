package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

func validDraft() Draft {
	return Draft{
		Title:      "First day at the lake house",
		Content:    "We arrived just before sunset.",
		OccurredAt: time.Date(2019, 7, 14, 0, 0, 0, 0, time.UTC),
		AuthorID:   "user-1",
	}
}

func TestNewMemory_Valid(t *testing.T) {
	m, err := NewMemory(validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, CategoryUncategorized, m.Category)
	assert.Equal(t, PrivacyPrivate, m.Privacy)
	assert.NotNil(t, m.Tags)
	assert.Empty(t, m.Tags)
	assert.NotNil(t, m.MediaItems)
}

func TestNewMemory_RequiresTitle(t *testing.T) {
	draft := validDraft()
	draft.Title = "   "

	_, err := NewMemory(draft)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewMemory_RequiresOccurredAt(t *testing.T) {
	draft := validDraft()
	draft.OccurredAt = time.Time{}

	_, err := NewMemory(draft)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewMemory_KeepsProvidedID(t *testing.T) {
	draft := validDraft()
	draft.ID = "fixed-id"

	m, err := NewMemory(draft)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", m.ID)
}

func TestNormalize_DedupesTagsPreservingOrder(t *testing.T) {
	m := &Memory{
		Title:      "t",
		OccurredAt: time.Now(),
		Tags:       []string{"summer", "family", "summer", " ", "lake", "family"},
	}
	m.Normalize()

	assert.Equal(t, []string{"summer", "family", "lake"}, m.Tags)
}

func TestNormalize_SharedWithOnlyForShared(t *testing.T) {
	m := &Memory{Privacy: PrivacyPrivate, SharedWith: []string{"a@b.c"}}
	m.Normalize()
	assert.Nil(t, m.SharedWith)

	m = &Memory{Privacy: PrivacyShared}
	m.Normalize()
	assert.NotNil(t, m.SharedWith)
}

func TestMediaItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    MediaItem
		wantErr bool
	}{
		{"text with content", MediaItem{Kind: MediaKindText, Content: "note"}, false},
		{"text with locator", MediaItem{Kind: MediaKindText, Content: "note", Locator: "https://x"}, true},
		{"image with locator", MediaItem{Kind: MediaKindImage, Locator: "https://x/img.png"}, false},
		{"image without locator", MediaItem{Kind: MediaKindImage}, true},
		{"video with content", MediaItem{Kind: MediaKindVideo, Locator: "https://x", Content: "body"}, true},
		{"unknown kind", MediaItem{Kind: "gif"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKindFromContentType(t *testing.T) {
	assert.Equal(t, MediaKindImage, KindFromContentType("image/jpeg"))
	assert.Equal(t, MediaKindAudio, KindFromContentType("audio/mpeg"))
	assert.Equal(t, MediaKindVideo, KindFromContentType("video/mp4"))
	assert.Equal(t, MediaKindText, KindFromContentType("text/plain"))
	assert.Equal(t, MediaKind(""), KindFromContentType("application/zip"))
}

func TestMediaItem_BlobLocator(t *testing.T) {
	item := MediaItem{Kind: MediaKindAudio, Locator: "blob:media-42"}
	assert.True(t, item.IsBlobBacked())
	assert.Equal(t, "media-42", item.BlobID())

	url := MediaItem{Kind: MediaKindImage, Locator: "https://cdn/img.png"}
	assert.False(t, url.IsBlobBacked())
	assert.Equal(t, "", url.BlobID())
}

func TestNormalizeMedia_LegacySingleAttachment(t *testing.T) {
	items := NormalizeMedia(nil, "image", "https://cdn/old.png")
	require.Len(t, items, 1)
	assert.Equal(t, MediaKindImage, items[0].Kind)
	assert.Equal(t, "https://cdn/old.png", items[0].Locator)

	// list wins over legacy fields when both are present
	list := []MediaItem{{Kind: MediaKindText, Content: "hi"}}
	assert.Equal(t, list, NormalizeMedia(list, "image", "https://cdn/old.png"))

	// no media at all
	assert.Empty(t, NormalizeMedia(nil, "text", ""))
}
