// Package fixtures provides test data builders.
package fixtures

import (
	"time"

	"github.com/google/uuid"

	"github.com/Xazratbek/storybridge-net/domain/memory"
)

// MemoryBuilder builds memory records for tests.
type MemoryBuilder struct {
	m memory.Memory
}

// NewMemory starts a builder with sensible defaults.
func NewMemory() *MemoryBuilder {
	return &MemoryBuilder{m: memory.Memory{
		ID:         uuid.New().String(),
		Title:      "Test memory",
		Content:    "Something worth remembering",
		OccurredAt: time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC),
		Category:   memory.CategoryUncategorized,
		Privacy:    memory.PrivacyPrivate,
		AuthorID:   "test-user",
	}}
}

func (b *MemoryBuilder) WithID(id string) *MemoryBuilder {
	b.m.ID = id
	return b
}

func (b *MemoryBuilder) WithTitle(title string) *MemoryBuilder {
	b.m.Title = title
	return b
}

func (b *MemoryBuilder) WithContent(content string) *MemoryBuilder {
	b.m.Content = content
	return b
}

func (b *MemoryBuilder) WithAuthor(authorID string) *MemoryBuilder {
	b.m.AuthorID = authorID
	return b
}

func (b *MemoryBuilder) WithCategory(category string) *MemoryBuilder {
	b.m.Category = category
	return b
}

func (b *MemoryBuilder) WithTags(tags ...string) *MemoryBuilder {
	b.m.Tags = tags
	return b
}

func (b *MemoryBuilder) WithOccurredAt(t time.Time) *MemoryBuilder {
	b.m.OccurredAt = t
	return b
}

func (b *MemoryBuilder) WithPrivacy(p memory.Privacy, sharedWith ...string) *MemoryBuilder {
	b.m.Privacy = p
	b.m.SharedWith = sharedWith
	return b
}

func (b *MemoryBuilder) WithMedia(items ...memory.MediaItem) *MemoryBuilder {
	b.m.MediaItems = items
	return b
}

// Build returns the record by value.
func (b *MemoryBuilder) Build() memory.Memory {
	m := b.m
	m.Normalize()
	return m
}

// BuildPtr returns the record by pointer.
func (b *MemoryBuilder) BuildPtr() *memory.Memory {
	m := b.Build()
	return &m
}
