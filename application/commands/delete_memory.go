package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/ports"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// DeleteMemoryCommand removes a record. Deleting an id that is already gone
// is not an error; the result reports whether anything was removed.
type DeleteMemoryCommand struct {
	ID       string
	AuthorID string
}

// Validate implements bus.Command.
func (c DeleteMemoryCommand) Validate() error {
	if c.ID == "" {
		return pkgerrors.NewValidationError("id is required")
	}
	return nil
}

// DeleteMemoryResult reports whether a record was actually removed.
type DeleteMemoryResult struct {
	Deleted bool
}

// DeleteMemoryHandler removes memories and their stored media.
type DeleteMemoryHandler struct {
	repo   ports.MemoryRepository
	media  ports.MediaStore
	logger *zap.Logger
}

// NewDeleteMemoryHandler creates the handler.
func NewDeleteMemoryHandler(repo ports.MemoryRepository, media ports.MediaStore, logger *zap.Logger) *DeleteMemoryHandler {
	return &DeleteMemoryHandler{repo: repo, media: media, logger: logger}
}

// Handle implements bus.CommandHandler.
func (h *DeleteMemoryHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(DeleteMemoryCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid command type")
	}

	if c.AuthorID != "" {
		existing, err := h.repo.GetByID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return DeleteMemoryResult{Deleted: false}, nil
		}
		if existing.AuthorID != c.AuthorID {
			return nil, pkgerrors.NewForbiddenError("memory belongs to another user")
		}
	}

	deleted, err := h.repo.Delete(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	if deleted {
		// Stored media is cleaned up best-effort; the record removal is
		// what the caller observes.
		if err := h.media.DeleteAllForRecord(ctx, c.ID); err != nil {
			h.logger.Warn("media cleanup failed",
				zap.String("memory_id", c.ID), zap.Error(err))
		}
		h.logger.Info("memory deleted", zap.String("memory_id", c.ID))
	}

	return DeleteMemoryResult{Deleted: deleted}, nil
}
