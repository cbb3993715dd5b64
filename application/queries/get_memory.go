// Package queries holds the read-only operations and their handlers.
package queries

import (
	"context"
	"fmt"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/application/queries/bus"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// GetMemoryQuery fetches a single record by id. A missing record yields a
// not-found error at this layer; the repository itself reports absence as
// (nil, nil).
type GetMemoryQuery struct {
	ID string
}

// Validate implements bus.Query.
func (q GetMemoryQuery) Validate() error {
	if q.ID == "" {
		return pkgerrors.NewValidationError("id is required")
	}
	return nil
}

// GetMemoryHandler serves single-record reads.
type GetMemoryHandler struct {
	repo ports.MemoryRepository
}

// NewGetMemoryHandler creates the handler.
func NewGetMemoryHandler(repo ports.MemoryRepository) *GetMemoryHandler {
	return &GetMemoryHandler{repo: repo}
}

// Handle implements bus.QueryHandler.
func (h *GetMemoryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(GetMemoryQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type")
	}

	m, err := h.repo.GetByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("memory %s", q.ID))
	}
	return m, nil
}
