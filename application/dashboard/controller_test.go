package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/commands"
	cmdbus "github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/queries/aggregator"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
	"github.com/Xazratbek/storybridge-net/tests/fixtures"
	"github.com/Xazratbek/storybridge-net/tests/mocks"
)

func newTestController(t *testing.T, repo *mocks.MockMemoryRepository, media *mocks.MockMediaStore) *Controller {
	t.Helper()
	b := cmdbus.NewCommandBus()
	err := b.Register(commands.DeleteMemoryCommand{},
		commands.NewDeleteMemoryHandler(repo, media, zap.NewNop()))
	require.NoError(t, err)
	return NewController(repo, b, zap.NewNop())
}

func twoRecords() []memory.Memory {
	return []memory.Memory{
		fixtures.NewMemory().WithID("a").WithAuthor("u1").WithTags("summer").
			WithOccurredAt(time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)).Build(),
		fixtures.NewMemory().WithID("b").WithAuthor("u1").WithTags("winter").
			WithOccurredAt(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)).Build(),
	}
}

func TestController_LoadReachesReady(t *testing.T) {
	repo := new(mocks.MockMemoryRepository)
	c := newTestController(t, repo, new(mocks.MockMediaStore))

	assert.Equal(t, StateIdle, c.View().State)

	repo.On("ListByAuthor", mock.Anything, "u1").Return(twoRecords(), nil)
	require.NoError(t, c.Load(context.Background(), "u1"))

	v := c.View()
	assert.Equal(t, StateReady, v.State)
	assert.Len(t, v.Memories, 2)
	assert.Equal(t, "b", v.Memories[0].ID, "newest event first")
	assert.Equal(t, []string{"summer", "winter"}, v.Tags)
}

func TestController_LoadWithoutSessionIsUnauthorized(t *testing.T) {
	c := newTestController(t, new(mocks.MockMemoryRepository), new(mocks.MockMediaStore))

	err := c.Load(context.Background(), "")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnauthorized(err))
	assert.Equal(t, StateError, c.View().State)
}

func TestController_RetryAfterLoadFailure(t *testing.T) {
	repo := new(mocks.MockMemoryRepository)
	c := newTestController(t, repo, new(mocks.MockMediaStore))

	repo.On("ListByAuthor", mock.Anything, "u1").
		Return(nil, pkgerrors.NewDatabaseError("list", assert.AnError)).Once()
	require.Error(t, c.Load(context.Background(), "u1"))
	assert.Equal(t, StateError, c.View().State)

	repo.On("ListByAuthor", mock.Anything, "u1").Return(twoRecords(), nil).Once()
	require.NoError(t, c.Retry(context.Background()))
	assert.Equal(t, StateReady, c.View().State)
}

func TestController_RetryIsNoOpWhenReady(t *testing.T) {
	repo := new(mocks.MockMemoryRepository)
	c := newTestController(t, repo, new(mocks.MockMediaStore))

	repo.On("ListByAuthor", mock.Anything, "u1").Return(twoRecords(), nil).Once()
	require.NoError(t, c.Load(context.Background(), "u1"))

	require.NoError(t, c.Retry(context.Background()))
	repo.AssertNumberOfCalls(t, "ListByAuthor", 1)
}

func TestController_FilterNarrowsViewButNotPools(t *testing.T) {
	repo := new(mocks.MockMemoryRepository)
	c := newTestController(t, repo, new(mocks.MockMediaStore))

	repo.On("ListByAuthor", mock.Anything, "u1").Return(twoRecords(), nil)
	require.NoError(t, c.Load(context.Background(), "u1"))

	c.SetFilter(aggregator.Filter{Tag: "summer"})
	v := c.View()
	require.Len(t, v.Memories, 1)
	assert.Equal(t, "a", v.Memories[0].ID)
	assert.Equal(t, []string{"summer", "winter"}, v.Tags, "pool built from unfiltered set")
	assert.Equal(t, 2, v.Total)
}

func TestController_TimelineTabGroupsByYear(t *testing.T) {
	repo := new(mocks.MockMemoryRepository)
	c := newTestController(t, repo, new(mocks.MockMediaStore))

	repo.On("ListByAuthor", mock.Anything, "u1").Return(twoRecords(), nil)
	require.NoError(t, c.Load(context.Background(), "u1"))

	c.SelectTab(TabTimeline)
	v := c.View()
	assert.Empty(t, v.Memories)
	require.Len(t, v.Groups, 2)
	assert.Equal(t, 2022, v.Groups[0].Year)
	assert.Equal(t, 2021, v.Groups[1].Year)
}

func TestController_DeleteNeedsConfirmation(t *testing.T) {
	repo := new(mocks.MockMemoryRepository)
	media := new(mocks.MockMediaStore)
	c := newTestController(t, repo, media)

	repo.On("ListByAuthor", mock.Anything, "u1").Return(twoRecords(), nil).Once()
	require.NoError(t, c.Load(context.Background(), "u1"))

	require.NoError(t, c.RequestDelete("a"))
	assert.Equal(t, "a", c.View().PendingDelete)

	// cancel removes nothing
	c.CancelDelete()
	assert.Empty(t, c.View().PendingDelete)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	// confirm goes through the command and reloads the cache
	require.NoError(t, c.RequestDelete("a"))
	owned := fixtures.NewMemory().WithID("a").WithAuthor("u1").BuildPtr()
	repo.On("GetByID", mock.Anything, "a").Return(owned, nil)
	repo.On("Delete", mock.Anything, "a").Return(true, nil)
	media.On("DeleteAllForRecord", mock.Anything, "a").Return(nil)
	repo.On("ListByAuthor", mock.Anything, "u1").Return(twoRecords()[1:], nil).Once()

	require.NoError(t, c.ConfirmDelete(context.Background()))

	v := c.View()
	assert.Equal(t, StateReady, v.State)
	assert.Len(t, v.Memories, 1)
	assert.Empty(t, v.PendingDelete)
	repo.AssertNumberOfCalls(t, "ListByAuthor", 2)
}

func TestController_ConfirmWithoutRequestFails(t *testing.T) {
	repo := new(mocks.MockMemoryRepository)
	c := newTestController(t, repo, new(mocks.MockMediaStore))

	repo.On("ListByAuthor", mock.Anything, "u1").Return(twoRecords(), nil)
	require.NoError(t, c.Load(context.Background(), "u1"))

	err := c.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestController_RequestDeleteBeforeLoadFails(t *testing.T) {
	c := newTestController(t, new(mocks.MockMemoryRepository), new(mocks.MockMediaStore))
	assert.ErrorIs(t, c.RequestDelete("a"), ErrNotReady)
}
