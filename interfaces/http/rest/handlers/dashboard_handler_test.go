package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cmdbus "github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/dashboard"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	"github.com/Xazratbek/storybridge-net/pkg/auth"
	"github.com/Xazratbek/storybridge-net/tests/fixtures"
	"github.com/Xazratbek/storybridge-net/tests/mocks"
)

func newTestDashboardHandler(repo *mocks.MockMemoryRepository) *DashboardHandler {
	factory := func() *dashboard.Controller {
		return dashboard.NewController(repo, cmdbus.NewCommandBus(), zap.NewNop())
	}
	return NewDashboardHandler(factory, "/login", zap.NewNop())
}

func sessionRequest(method, target, userID string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	ctx := auth.SetSessionInContext(r.Context(), &auth.Session{
		UserID: userID,
		Email:  userID + "@example.com",
	})
	return r.WithContext(ctx)
}

func decodeViewState(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Data struct {
			State string `json:"state"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data.State
}

func TestDashboardHandler_ConcurrentFirstRequestsWaitForLoad(t *testing.T) {
	records := []memory.Memory{fixtures.NewMemory().WithAuthor("u1").Build()}
	started := make(chan struct{})
	release := make(chan struct{})

	repo := new(mocks.MockMemoryRepository)
	repo.On("ListByAuthor", mock.Anything, "u1").Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(records, nil).Once()

	h := newTestDashboardHandler(repo)

	first := httptest.NewRecorder()
	firstDone := make(chan struct{})
	go func() {
		h.View(first, sessionRequest(http.MethodGet, "/dashboard/session", "u1"))
		close(firstDone)
	}()
	<-started

	second := httptest.NewRecorder()
	secondDone := make(chan struct{})
	go func() {
		h.View(second, sessionRequest(http.MethodGet, "/dashboard/session", "u1"))
		close(secondDone)
	}()

	select {
	case <-secondDone:
		t.Fatal("second request rendered before the initial load completed")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-firstDone
	<-secondDone

	assert.Equal(t, string(dashboard.StateReady), decodeViewState(t, first))
	assert.Equal(t, string(dashboard.StateReady), decodeViewState(t, second))
	repo.AssertNumberOfCalls(t, "ListByAuthor", 1)
}

func TestDashboardHandler_ReusesLoadedSession(t *testing.T) {
	records := []memory.Memory{fixtures.NewMemory().WithAuthor("u1").Build()}

	repo := new(mocks.MockMemoryRepository)
	repo.On("ListByAuthor", mock.Anything, "u1").Return(records, nil)

	h := newTestDashboardHandler(repo)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.View(rec, sessionRequest(http.MethodGet, "/dashboard/session", "u1"))
		assert.Equal(t, string(dashboard.StateReady), decodeViewState(t, rec))
	}
	repo.AssertNumberOfCalls(t, "ListByAuthor", 1)
}

func TestDashboardHandler_Unauthenticated(t *testing.T) {
	h := newTestDashboardHandler(new(mocks.MockMemoryRepository))

	rec := httptest.NewRecorder()
	h.View(rec, httptest.NewRequest(http.MethodGet, "/dashboard/session", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
