package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// Privacy controls who can see a memory.
type Privacy string

const (
	PrivacyPrivate Privacy = "private"
	PrivacyShared  Privacy = "shared"
	PrivacyFamily  Privacy = "family"
)

// CategoryUncategorized is the sentinel category assigned when a record
// carries none.
const CategoryUncategorized = "Uncategorized"

// Memory is a single journaled entry: text plus optional media attachments.
// OccurredAt is when the remembered event happened, not when the record was
// written; CreatedAt/UpdatedAt are stamped by the store and never set by
// callers.
type Memory struct {
	ID         string
	Title      string
	Content    string
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Tags       []string
	Category   string
	Privacy    Privacy
	SharedWith []string
	AuthorID   string
	MediaItems []MediaItem
}

// Draft carries the caller-supplied fields for a new memory. The store
// assigns the id (when absent) and both timestamps.
type Draft struct {
	ID         string
	Title      string
	Content    string
	OccurredAt time.Time
	Tags       []string
	Category   string
	Privacy    Privacy
	SharedWith []string
	AuthorID   string
	MediaItems []MediaItem
}

// NewMemory validates a draft and builds the record the store will persist.
// Title and the event date are required; everything else gets defaults.
func NewMemory(draft Draft) (*Memory, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, pkgerrors.NewValidationError("title is required")
	}
	if draft.OccurredAt.IsZero() {
		return nil, pkgerrors.NewValidationError("date is required")
	}
	if draft.AuthorID == "" {
		return nil, pkgerrors.NewValidationError("author is required")
	}

	m := &Memory{
		ID:         draft.ID,
		Title:      draft.Title,
		Content:    draft.Content,
		OccurredAt: draft.OccurredAt,
		Tags:       draft.Tags,
		Category:   draft.Category,
		Privacy:    draft.Privacy,
		SharedWith: draft.SharedWith,
		AuthorID:   draft.AuthorID,
		MediaItems: draft.MediaItems,
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Normalize()
	return m, nil
}

// Normalize fills defaults and repairs shapes the stores are allowed to
// return: nil tags become an empty set, duplicates are suppressed with the
// first occurrence kept for display order, an absent category becomes the
// sentinel, and an unset privacy defaults to private.
func (m *Memory) Normalize() {
	m.Tags = dedupeTags(m.Tags)
	if m.Category == "" {
		m.Category = CategoryUncategorized
	}
	if m.Privacy == "" {
		m.Privacy = PrivacyPrivate
	}
	if m.Privacy != PrivacyShared {
		m.SharedWith = nil
	}
	if m.SharedWith == nil && m.Privacy == PrivacyShared {
		m.SharedWith = []string{}
	}
	if m.MediaItems == nil {
		m.MediaItems = []MediaItem{}
	}
}

// HasTag reports whether the memory carries the given tag.
func (m *Memory) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Year returns the calendar year of the remembered event.
func (m *Memory) Year() int {
	return m.OccurredAt.Year()
}

func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
