package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// UpdateMemoryCommand replaces the mutable fields of an existing record.
type UpdateMemoryCommand struct {
	ID         string
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
func (c UpdateMemoryCommand) Validate() error {
	if c.ID == "" {
		return pkgerrors.NewValidationError("id is required")
	}
	if c.Title == "" {
		return pkgerrors.NewValidationError("title is required")
	}
	if c.OccurredAt.IsZero() {
		return pkgerrors.NewValidationError("date is required")
	}
	return nil
}

// UpdateMemoryHandler applies edits to existing memories.
type UpdateMemoryHandler struct {
	repo   ports.MemoryRepository
	logger *zap.Logger
}

// NewUpdateMemoryHandler creates the handler.
func NewUpdateMemoryHandler(repo ports.MemoryRepository, logger *zap.Logger) *UpdateMemoryHandler {
	return &UpdateMemoryHandler{repo: repo, logger: logger}
}

// Handle implements bus.CommandHandler. It returns the updated record.
func (h *UpdateMemoryHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(UpdateMemoryCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid command type")
	}

	existing, err := h.repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("memory %s", c.ID))
	}
	if c.AuthorID != "" && existing.AuthorID != c.AuthorID {
		return nil, pkgerrors.NewForbiddenError("memory belongs to another user")
	}

	for _, item := range c.MediaItems {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	existing.Title = c.Title
	existing.Content = c.Content
	existing.OccurredAt = c.OccurredAt
	existing.Tags = c.Tags
	existing.Category = c.Category
	existing.Privacy = c.Privacy
	existing.SharedWith = c.SharedWith
	existing.MediaItems = c.MediaItems
	existing.UpdatedAt = time.Now().UTC()
	existing.Normalize()

	if err := h.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	h.logger.Info("memory updated", zap.String("memory_id", existing.ID))

	return existing, nil
}
