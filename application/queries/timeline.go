package queries

import (
	"context"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/application/queries/aggregator"
	"github.com/Xazratbek/storybridge-net/application/queries/bus"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// TimelineQuery returns a user's records grouped by the year of the
// remembered event, newest year first.
type TimelineQuery struct {
	AuthorID string
}

// Validate implements bus.Query.
func (q TimelineQuery) Validate() error {
	if q.AuthorID == "" {
		return pkgerrors.NewValidationError("author is required")
	}
	return nil
}

// TimelineView is the timeline response shape.
type TimelineView struct {
	Groups []aggregator.YearGroup
	Total  int
}

// TimelineHandler serves the chronological view.
type TimelineHandler struct {
	repo ports.MemoryRepository
}

// NewTimelineHandler creates the handler.
func NewTimelineHandler(repo ports.MemoryRepository) *TimelineHandler {
	return &TimelineHandler{repo: repo}
}

// Handle implements bus.QueryHandler.
func (h *TimelineHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(TimelineQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type")
	}

	records, err := h.repo.ListByAuthor(ctx, q.AuthorID)
	if err != nil {
		return nil, err
	}

	return &TimelineView{
		Groups: aggregator.GroupByYear(records),
		Total:  len(records),
	}, nil
}
