package dualstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
	"github.com/Xazratbek/storybridge-net/tests/fixtures"
	"github.com/Xazratbek/storybridge-net/tests/mocks"
)

func storeUnavailable() error {
	return pkgerrors.NewUnavailableError("postgrest")
}

func TestCreate_SucceedsWhenBothAccept(t *testing.T) {
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	s := New(primary, secondary, zap.NewNop())

	m := fixtures.NewMemory().BuildPtr()
	primary.On("Create", mock.Anything, m).Return(nil)
	secondary.On("Create", mock.Anything, m).Return(nil)

	assert.NoError(t, s.Create(context.Background(), m))
	primary.AssertExpectations(t)
	secondary.AssertExpectations(t)
}

func TestCreate_SucceedsWhenOnlyOneAccepts(t *testing.T) {
	m := fixtures.NewMemory().BuildPtr()

	// primary down
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	primary.On("Create", mock.Anything, m).Return(storeUnavailable())
	secondary.On("Create", mock.Anything, m).Return(nil)
	assert.NoError(t, New(primary, secondary, zap.NewNop()).Create(context.Background(), m))

	// secondary down
	primary = new(mocks.MockMemoryRepository)
	secondary = new(mocks.MockMemoryRepository)
	primary.On("Create", mock.Anything, m).Return(nil)
	secondary.On("Create", mock.Anything, m).Return(storeUnavailable())
	assert.NoError(t, New(primary, secondary, zap.NewNop()).Create(context.Background(), m))
}

func TestCreate_FailsOnlyWhenBothFail(t *testing.T) {
	m := fixtures.NewMemory().BuildPtr()
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	primary.On("Create", mock.Anything, m).Return(storeUnavailable())
	secondary.On("Create", mock.Anything, m).Return(storeUnavailable())

	err := New(primary, secondary, zap.NewNop()).Create(context.Background(), m)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnavailable(err))
}

func TestGetByID_FallsBackWhenPrimaryMisses(t *testing.T) {
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	s := New(primary, secondary, zap.NewNop())

	m := fixtures.NewMemory().WithID("only-secondary").BuildPtr()
	primary.On("GetByID", mock.Anything, "only-secondary").Return(nil, nil)
	secondary.On("GetByID", mock.Anything, "only-secondary").Return(m, nil)

	got, err := s.GetByID(context.Background(), "only-secondary")
	require.NoError(t, err)
	assert.Equal(t, "only-secondary", got.ID)
}

func TestGetByID_AbsentInBothIsNilNil(t *testing.T) {
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	s := New(primary, secondary, zap.NewNop())

	primary.On("GetByID", mock.Anything, "ghost").Return(nil, nil)
	secondary.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

	got, err := s.GetByID(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetByID_FallsBackWhenPrimaryErrors(t *testing.T) {
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	s := New(primary, secondary, zap.NewNop())

	m := fixtures.NewMemory().WithID("m1").BuildPtr()
	primary.On("GetByID", mock.Anything, "m1").Return(nil, storeUnavailable())
	secondary.On("GetByID", mock.Anything, "m1").Return(m, nil)

	got, err := s.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestListByAuthor_PrefersPrimary(t *testing.T) {
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	s := New(primary, secondary, zap.NewNop())

	records := []memory.Memory{fixtures.NewMemory().Build()}
	primary.On("ListByAuthor", mock.Anything, "u1").Return(records, nil)

	got, err := s.ListByAuthor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, records, got)
	secondary.AssertNotCalled(t, "ListByAuthor", mock.Anything, mock.Anything)
}

func TestDelete_TrueWhenEitherRemoved(t *testing.T) {
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	s := New(primary, secondary, zap.NewNop())

	primary.On("Delete", mock.Anything, "m1").Return(false, nil)
	secondary.On("Delete", mock.Anything, "m1").Return(true, nil)

	deleted, err := s.Delete(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDelete_FalseWhenAbsentEverywhere(t *testing.T) {
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	s := New(primary, secondary, zap.NewNop())

	primary.On("Delete", mock.Anything, "gone").Return(false, nil)
	secondary.On("Delete", mock.Anything, "gone").Return(false, nil)

	deleted, err := s.Delete(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDelete_ErrorOnlyWhenBothFail(t *testing.T) {
	primary := new(mocks.MockMemoryRepository)
	secondary := new(mocks.MockMemoryRepository)
	s := New(primary, secondary, zap.NewNop())

	primary.On("Delete", mock.Anything, "m1").Return(false, storeUnavailable())
	secondary.On("Delete", mock.Anything, "m1").Return(true, nil)

	deleted, err := s.Delete(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, deleted)
}
