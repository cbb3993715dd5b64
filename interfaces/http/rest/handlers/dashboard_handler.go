package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/dashboard"
	"github.com/Xazratbek/storybridge-net/application/queries/aggregator"
	"github.com/Xazratbek/storybridge-net/pkg/auth"
	"github.com/Xazratbek/storybridge-net/pkg/common"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// dashboardSession pairs a controller with its one-time initial load.
type dashboardSession struct {
	once sync.Once
	ctrl *dashboard.Controller
}

// DashboardHandler exposes the stateful dashboard session: one controller
// per user, loaded on first touch and kept for the life of the process
// (entries are never evicted).
type DashboardHandler struct {
	newController func() *dashboard.Controller
	loginURL      string
	logger        *zap.Logger

	mu       sync.Mutex
	sessions map[string]*dashboardSession
}

// NewDashboardHandler creates the handler. The factory produces a fresh
// controller per user session.
func NewDashboardHandler(factory func() *dashboard.Controller, loginURL string, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		newController: factory,
		loginURL:      loginURL,
		logger:        logger,
		sessions:      make(map[string]*dashboardSession),
	}
}

func (h *DashboardHandler) controllerFor(r *http.Request) (*dashboard.Controller, *auth.Session, error) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		return nil, nil, pkgerrors.NewUnauthorizedError("")
	}

	h.mu.Lock()
	entry, ok := h.sessions[session.UserID]
	if !ok {
		entry = &dashboardSession{ctrl: h.newController()}
		h.sessions[session.UserID] = entry
	}
	h.mu.Unlock()

	// The initial load runs exactly once; concurrent first requests wait
	// for it instead of observing an idle controller.
	var loadErr error
	entry.once.Do(func() {
		loadErr = entry.ctrl.Load(r.Context(), session.UserID)
	})
	return entry.ctrl, session, loadErr
}

// View handles GET /dashboard/session. Query params update the filter and
// tab before rendering.
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.controllerFor(r)
	if err != nil && c == nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	q := r.URL.Query()
	if q.Has("q") || q.Has("category") || q.Has("tag") {
		c.SetFilter(aggregator.Filter{
			Search:   q.Get("q"),
			Category: q.Get("category"),
			Tag:      q.Get("tag"),
		})
	}
	if tab := q.Get("tab"); tab != "" {
		c.SelectTab(dashboard.Tab(tab))
	}

	h.renderView(w, c)
}

// Retry handles POST /dashboard/session/retry after a failed load.
func (h *DashboardHandler) Retry(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.controllerFor(r)
	if c == nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	if err := c.Retry(r.Context()); err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}
	h.renderView(w, c)
}

// RequestDelete handles POST /dashboard/session/delete/{memoryID} and opens
// the confirmation step.
func (h *DashboardHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.controllerFor(r)
	if c == nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	if err := c.RequestDelete(chi.URLParam(r, "memoryID")); err != nil {
		h.respondControllerError(w, err)
		return
	}
	h.renderView(w, c)
}

// ConfirmDelete handles POST /dashboard/session/delete/confirm.
func (h *DashboardHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.controllerFor(r)
	if c == nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	if err := c.ConfirmDelete(r.Context()); err != nil {
		h.respondControllerError(w, err)
		return
	}
	h.renderView(w, c)
}

// CancelDelete handles POST /dashboard/session/delete/cancel.
func (h *DashboardHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.controllerFor(r)
	if c == nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	c.CancelDelete()
	h.renderView(w, c)
}

func (h *DashboardHandler) respondControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrOperationPending):
		common.RespondError(w, http.StatusConflict, "OPERATION_PENDING", err.Error())
	case errors.Is(err, dashboard.ErrNotReady):
		common.RespondError(w, http.StatusConflict, "NOT_READY", err.Error())
	default:
		common.RespondAppError(w, err, h.loginURL)
	}
}

func (h *DashboardHandler) renderView(w http.ResponseWriter, c *dashboard.Controller) {
	v := c.View()

	body := map[string]interface{}{
		"state":         string(v.State),
		"tab":           string(v.Tab),
		"pendingDelete": v.PendingDelete,
		"total":         v.Total,
	}
	if v.Err != nil {
		body["error"] = v.Err.Error()
	}
	if v.State == dashboard.StateReady {
		body["tags"] = v.Tags
		body["categories"] = v.Categories
		if v.Tab == dashboard.TabTimeline {
			type yearGroup struct {
				Year     int              `json:"year"`
				Memories []memoryResponse `json:"memories"`
			}
			groups := make([]yearGroup, 0, len(v.Groups))
			for _, g := range v.Groups {
				groups = append(groups, yearGroup{Year: g.Year, Memories: toResponses(g.Memories)})
			}
			body["groups"] = groups
		} else {
			body["memories"] = toResponses(v.Memories)
		}
	}

	common.RespondJSON(w, http.StatusOK, body)
}
