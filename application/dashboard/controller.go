// Package dashboard holds the session-scoped controller behind the
// dashboard surface: a small state machine that loads the user's records
// once, serves filtered views from that snapshot, and funnels deletions
// through an explicit confirmation step.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/commands"
	cmdbus "github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/application/queries/aggregator"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// State is the controller's lifecycle position.
type State string

const (
	StateIdle           State = "idle"
	StateLoadingUser    State = "loading_user"
	StateLoadingRecords State = "loading_records"
	StateReady          State = "ready"
	StateError          State = "error"
)

// Tab selects which dashboard pane a view renders.
type Tab string

const (
	TabMemories Tab = "memories"
	TabTimeline Tab = "timeline"
)

// ErrOperationPending is returned when a mutation is requested while a
// previous one is still outstanding.
var ErrOperationPending = errors.New("an operation is already in progress")

// ErrNotReady is returned for operations that need a loaded record set.
var ErrNotReady = errors.New("dashboard is not loaded")

// View is an immutable snapshot handed to the presentation layer.
type View struct {
	State         State
	Tab           Tab
	Filter        aggregator.Filter
	Memories      []memory.Memory
	Groups        []aggregator.YearGroup
	Tags          []string
	Categories    []string
	Total         int
	PendingDelete string
	Err           error
}

// Controller drives one user's dashboard session. All methods are safe for
// concurrent use.
type Controller struct {
	repo   ports.MemoryRepository
	bus    *cmdbus.CommandBus
	logger *zap.Logger

	mu            sync.Mutex
	state         State
	tab           Tab
	filter        aggregator.Filter
	authorID      string
	records       []memory.Memory // nil means the cache is invalid
	pendingDelete string
	lastErr       error
	busy          bool
}

// NewController creates an idle controller for one session.
func NewController(repo ports.MemoryRepository, bus *cmdbus.CommandBus, logger *zap.Logger) *Controller {
	return &Controller{
		repo:   repo,
		bus:    bus,
		logger: logger,
		state:  StateIdle,
		tab:    TabMemories,
	}
}

func (c *Controller) lock()   { c.mu.Lock() }
func (c *Controller) unlock() { c.mu.Unlock() }

// Load resolves the session and fetches the record set. The controller
// passes through loading_user and loading_records before settling in ready
// or error.
func (c *Controller) Load(ctx context.Context, authorID string) error {
	c.lock()
	c.state = StateLoadingUser
	if authorID == "" {
		c.state = StateError
		c.lastErr = pkgerrors.NewUnauthorizedError("no active session")
		c.unlock()
		return c.lastErr
	}
	c.authorID = authorID
	c.state = StateLoadingRecords
	c.unlock()

	return c.fetch(ctx)
}

// Retry re-enters loading_records after a failed load. It is a no-op unless
// the controller is in the error state.
func (c *Controller) Retry(ctx context.Context) error {
	c.lock()
	if c.state != StateError || c.authorID == "" {
		c.unlock()
		return nil
	}
	c.state = StateLoadingRecords
	c.lastErr = nil
	c.unlock()

	return c.fetch(ctx)
}

func (c *Controller) fetch(ctx context.Context) error {
	records, err := c.repo.ListByAuthor(ctx, c.authorID)

	c.lock()
	defer c.unlock()
	if err != nil {
		c.state = StateError
		c.lastErr = err
		c.records = nil
		c.logger.Error("dashboard load failed",
			zap.String("author_id", c.authorID), zap.Error(err))
		return err
	}
	c.records = records
	c.state = StateReady
	c.lastErr = nil
	return nil
}

// SetFilter replaces the active filter. The record cache is untouched;
// filtering happens at view time.
func (c *Controller) SetFilter(f aggregator.Filter) {
	c.lock()
	defer c.unlock()
	f.AuthorID = "" // the cached set is already scoped to the session user
	c.filter = f
}

// SelectTab switches the rendered pane.
func (c *Controller) SelectTab(tab Tab) {
	c.lock()
	defer c.unlock()
	if tab == TabMemories || tab == TabTimeline {
		c.tab = tab
	}
}

// RequestDelete opens the confirmation step for one record. Nothing is
// removed until ConfirmDelete.
func (c *Controller) RequestDelete(id string) error {
	c.lock()
	defer c.unlock()
	if c.state != StateReady {
		return ErrNotReady
	}
	if c.busy {
		return ErrOperationPending
	}
	c.pendingDelete = id
	return nil
}

// CancelDelete closes the confirmation step without removing anything.
func (c *Controller) CancelDelete() {
	c.lock()
	defer c.unlock()
	c.pendingDelete = ""
}

// ConfirmDelete executes the pending deletion, then invalidates the record
// cache and reloads it. A second mutation while one is outstanding fails
// with ErrOperationPending.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.lock()
	if c.pendingDelete == "" {
		c.unlock()
		return ErrNotReady
	}
	if c.busy {
		c.unlock()
		return ErrOperationPending
	}
	id := c.pendingDelete
	c.busy = true
	c.unlock()

	_, err := c.bus.Send(ctx, commands.DeleteMemoryCommand{ID: id, AuthorID: c.authorID})

	c.lock()
	c.busy = false
	c.pendingDelete = ""
	if err != nil {
		c.unlock()
		return err
	}
	// The cache is invalidated rather than patched in place.
	c.records = nil
	c.state = StateLoadingRecords
	c.unlock()

	return c.fetch(ctx)
}

// View renders a snapshot of the current state. Pools are built from the
// unfiltered cache so the pickers stay stable while filters narrow the
// list.
func (c *Controller) View() View {
	c.lock()
	defer c.unlock()

	v := View{
		State:         c.state,
		Tab:           c.tab,
		Filter:        c.filter,
		PendingDelete: c.pendingDelete,
		Err:           c.lastErr,
	}
	if c.state != StateReady {
		return v
	}

	v.Total = len(c.records)
	v.Tags = aggregator.TagPool(c.records)
	v.Categories = aggregator.CategoryPool(c.records)
	filtered := aggregator.SortByDateDesc(aggregator.Apply(c.records, c.filter))
	if c.tab == TabTimeline {
		v.Groups = aggregator.GroupByYear(filtered)
	} else {
		v.Memories = filtered
	}
	return v
}
