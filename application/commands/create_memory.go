// Package commands holds the state-changing operations and their handlers.
package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// CreateMemoryCommand creates a new memory record.
type CreateMemoryCommand struct {
	Title      string
	Content    string
	OccurredAt time.Time
	Tags       []string
	Category   string
	Privacy    memory.Privacy
	SharedWith []string
	AuthorID   string
	MediaItems []memory.MediaItem
}

// Validate implements bus.Command.
func (c CreateMemoryCommand) Validate() error {
	if c.Title == "" {
		return pkgerrors.NewValidationError("title is required")
	}
	if c.OccurredAt.IsZero() {
		return pkgerrors.NewValidationError("date is required")
	}
	if c.AuthorID == "" {
		return pkgerrors.NewValidationError("author is required")
	}
	return nil
}

// CreateMemoryHandler persists new memories.
type CreateMemoryHandler struct {
	repo   ports.MemoryRepository
	logger *zap.Logger
}

// NewCreateMemoryHandler creates the handler.
func NewCreateMemoryHandler(repo ports.MemoryRepository, logger *zap.Logger) *CreateMemoryHandler {
	return &CreateMemoryHandler{repo: repo, logger: logger}
}

// Handle implements bus.CommandHandler. It returns the created record.
func (h *CreateMemoryHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(CreateMemoryCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid command type")
	}

	for _, item := range c.MediaItems {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	m, err := memory.NewMemory(memory.Draft{
		Title:      c.Title,
		Content:    c.Content,
		OccurredAt: c.OccurredAt,
		Tags:       c.Tags,
		Category:   c.Category,
		Privacy:    c.Privacy,
		SharedWith: c.SharedWith,
		AuthorID:   c.AuthorID,
		MediaItems: c.MediaItems,
	})
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	h.logger.Info("memory created",
		zap.String("memory_id", m.ID),
		zap.String("author_id", m.AuthorID))

	return m, nil
}
