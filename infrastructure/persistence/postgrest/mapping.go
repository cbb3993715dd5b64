// Package postgrest persists memories in Supabase Postgres through the
// PostgREST API.
package postgrest

import (
	"time"

	"github.com/Xazratbek/storybridge-net/domain/memory"
)

// memoryRow mirrors the memories table. Column names are snake_case; the
// legacy media_type/media_url pair is kept readable so rows written before
// the multi-attachment migration still load.
type memoryRow struct {
	ID         string     `json:"id,omitempty"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Date       string     `json:"date"`
	CreatedAt  string     `json:"created_at,omitempty"`
	UpdatedAt  string     `json:"updated_at,omitempty"`
	Tags       []string   `json:"tags"`
	Category   string     `json:"category"`
	Privacy    string     `json:"privacy"`
	SharedWith []string   `json:"shared_with,omitempty"`
	AuthorID   string     `json:"author_id"`
	MediaItems []mediaRow `json:"media_items"`
	MediaType  string     `json:"media_type,omitempty"`
	MediaURL   string     `json:"media_url,omitempty"`
}

type mediaRow struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type promptRow struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Category string `json:"category"`
}

type categoryRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type profileRow struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
}

func toRow(m *memory.Memory) memoryRow {
	row := memoryRow{
		ID:         m.ID,
		Title:      m.Title,
		Content:    m.Content,
		Date:       m.OccurredAt.UTC().Format(time.RFC3339),
		Tags:       m.Tags,
		Category:   m.Category,
		Privacy:    string(m.Privacy),
		SharedWith: m.SharedWith,
		AuthorID:   m.AuthorID,
		MediaItems: make([]mediaRow, 0, len(m.MediaItems)),
	}
	if !m.CreatedAt.IsZero() {
		row.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !m.UpdatedAt.IsZero() {
		row.UpdatedAt = m.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, item := range m.MediaItems {
		row.MediaItems = append(row.MediaItems, mediaRow{
			ID:          item.ID,
			Type:        string(item.Kind),
			Title:       item.Title,
			Content:     item.Content,
			URL:         item.Locator,
			Filename:    item.Filename,
			ContentType: item.ContentType,
		})
	}
	return row
}

func fromRow(row memoryRow) memory.Memory {
	items := make([]memory.MediaItem, 0, len(row.MediaItems))
	for _, r := range row.MediaItems {
		items = append(items, memory.MediaItem{
			ID:          r.ID,
			Kind:        memory.MediaKind(r.Type),
			Title:       r.Title,
			Content:     r.Content,
			Locator:     r.URL,
			Filename:    r.Filename,
			ContentType: r.ContentType,
		})
	}

	m := memory.Memory{
		ID:         row.ID,
		Title:      row.Title,
		Content:    row.Content,
		OccurredAt: parseTime(row.Date),
		CreatedAt:  parseTime(row.CreatedAt),
		UpdatedAt:  parseTime(row.UpdatedAt),
		Tags:       row.Tags,
		Category:   row.Category,
		Privacy:    memory.Privacy(row.Privacy),
		SharedWith: row.SharedWith,
		AuthorID:   row.AuthorID,
		MediaItems: memory.NormalizeMedia(items, row.MediaType, row.MediaURL),
	}
	m.Normalize()
	return m
}

// parseTime accepts the two timestamp shapes PostgREST emits: RFC3339 and
// a bare date for date columns.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
