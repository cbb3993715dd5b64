package queries

import (
	"context"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/application/queries/aggregator"
	"github.com/Xazratbek/storybridge-net/application/queries/bus"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// ListMemoriesQuery returns records matching a filter, newest event first.
type ListMemoriesQuery struct {
	Filter aggregator.Filter
}

// Validate implements bus.Query.
func (q ListMemoriesQuery) Validate() error { return nil }

// ListMemoriesHandler serves filtered list reads.
type ListMemoriesHandler struct {
	repo ports.MemoryRepository
}

// NewListMemoriesHandler creates the handler.
func NewListMemoriesHandler(repo ports.MemoryRepository) *ListMemoriesHandler {
	return &ListMemoriesHandler{repo: repo}
}

// Handle implements bus.QueryHandler.
func (h *ListMemoriesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(ListMemoriesQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type")
	}

	records, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := aggregator.Apply(records, q.Filter)
	return aggregator.SortByDateDesc(filtered), nil
}
