package queries

import (
	"context"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/application/queries/aggregator"
	"github.com/Xazratbek/storybridge-net/application/queries/bus"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// DashboardQuery composes one dashboard page: the filtered record list plus
// the pickers built from the user's unfiltered set.
type DashboardQuery struct {
	AuthorID string
	Filter   aggregator.Filter
}

// Validate implements bus.Query.
func (q DashboardQuery) Validate() error {
	if q.AuthorID == "" {
		return pkgerrors.NewValidationError("author is required")
	}
	return nil
}

// DashboardView is the dashboard response shape. Tags and Categories come
// from the unfiltered set so the pickers stay stable while filters narrow
// Memories.
type DashboardView struct {
	Memories   []memory.Memory
	Tags       []string
	Categories []string
	Total      int
	Shown      int
}

// DashboardHandler composes the dashboard page.
type DashboardHandler struct {
	repo ports.MemoryRepository
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(repo ports.MemoryRepository) *DashboardHandler {
	return &DashboardHandler{repo: repo}
}

// Handle implements bus.QueryHandler.
func (h *DashboardHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(DashboardQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type")
	}

	records, err := h.repo.ListByAuthor(ctx, q.AuthorID)
	if err != nil {
		return nil, err
	}

	filter := q.Filter
	filter.AuthorID = "" // the set is already scoped to the author
	filtered := aggregator.SortByDateDesc(aggregator.Apply(records, filter))

	return &DashboardView{
		Memories:   filtered,
		Tags:       aggregator.TagPool(records),
		Categories: aggregator.CategoryPool(records),
		Total:      len(records),
		Shown:      len(filtered),
	}, nil
}
