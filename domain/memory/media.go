package memory

import (
	"strings"

	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// MediaKind is the attachment variant.
type MediaKind string

const (
	MediaKindText  MediaKind = "text"
	MediaKindImage MediaKind = "image"
	MediaKindAudio MediaKind = "audio"
	MediaKindVideo MediaKind = "video"
)

// BlobLocatorPrefix marks locators that point at an inline blob in the
// document store rather than a fetchable URL.
const BlobLocatorPrefix = "blob:"

// MediaItem is one attachment of a memory. Exactly one of Content (text
// kind) or Locator (binary kinds) is populated.
type MediaItem struct {
	ID          string
	Kind        MediaKind
	Title       string
	Content     string // inline body, text kind only
	Locator     string // public URL or blob:<mediaID>, binary kinds only
	Filename    string
	ContentType string
}

// Validate enforces the content/locator invariant for the item's kind.
func (mi MediaItem) Validate() error {
	switch mi.Kind {
	case MediaKindText:
		if mi.Content == "" || mi.Locator != "" {
			return pkgerrors.NewValidationError("text media must carry inline content only")
		}
	case MediaKindImage, MediaKindAudio, MediaKindVideo:
		if mi.Locator == "" || mi.Content != "" {
			return pkgerrors.NewValidationError("binary media must carry a locator only")
		}
	default:
		return pkgerrors.NewValidationError("unknown media kind")
	}
	return nil
}

// IsBlobBacked reports whether the locator references an inline blob.
func (mi MediaItem) IsBlobBacked() bool {
	return strings.HasPrefix(mi.Locator, BlobLocatorPrefix)
}

// BlobID returns the media id embedded in a blob locator, or "" when the
// item is URL-backed.
func (mi MediaItem) BlobID() string {
	if !mi.IsBlobBacked() {
		return ""
	}
	return strings.TrimPrefix(mi.Locator, BlobLocatorPrefix)
}

// KindFromContentType maps a MIME type to a media kind. Unknown prefixes
// return "" so the caller can reject the upload.
func KindFromContentType(contentType string) MediaKind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaKindImage
	case strings.HasPrefix(contentType, "audio/"):
		return MediaKindAudio
	case strings.HasPrefix(contentType, "video/"):
		return MediaKindVideo
	case strings.HasPrefix(contentType, "text/"):
		return MediaKindText
	default:
		return ""
	}
}

// NormalizeMedia converts the shapes a store may return into the current
// multi-attachment list. Records written before the multi-attachment
// migration carry a single media_type/media_url pair; both shapes must load
// without error.
func NormalizeMedia(items []MediaItem, legacyType, legacyURL string) []MediaItem {
	if len(items) > 0 {
		return items
	}
	if legacyURL == "" {
		return []MediaItem{}
	}
	kind := MediaKind(legacyType)
	switch kind {
	case MediaKindImage, MediaKindAudio, MediaKindVideo:
		return []MediaItem{{Kind: kind, Locator: legacyURL}}
	default:
		// Legacy rows used "text" for records without real media; a URL
		// with no usable kind is treated as an image link.
		return []MediaItem{{Kind: MediaKindImage, Locator: legacyURL}}
	}
}
