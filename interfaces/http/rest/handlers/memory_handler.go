// Package handlers contains the REST endpoint handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/commands"
	cmdbus "github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/queries"
	"github.com/Xazratbek/storybridge-net/application/queries/aggregator"
	querybus "github.com/Xazratbek/storybridge-net/application/queries/bus"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	"github.com/Xazratbek/storybridge-net/pkg/auth"
	"github.com/Xazratbek/storybridge-net/pkg/common"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
	"github.com/Xazratbek/storybridge-net/pkg/utils"
)

const maxBodyBytes = 1 << 20

// MemoryHandler serves the memory CRUD and read endpoints.
type MemoryHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	loginURL   string
	logger     *zap.Logger
}

// NewMemoryHandler creates the handler.
func NewMemoryHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, loginURL string, logger *zap.Logger) *MemoryHandler {
	return &MemoryHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		loginURL:   loginURL,
		logger:     logger,
	}
}

type memoryRequest struct {
	Title      string          `json:"title" validate:"required,max=200"`
	Content    string          `json:"content" validate:"max=20000"`
	OccurredAt string          `json:"occurredAt" validate:"required"`
	Tags       []string        `json:"tags"`
	Category   string          `json:"category"`
	Privacy    string          `json:"privacy" validate:"omitempty,oneof=private shared family"`
	SharedWith []string        `json:"sharedWith"`
	MediaItems []mediaItemBody `json:"mediaItems"`
}

type mediaItemBody struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type" validate:"required,oneof=text image audio video"`
	Title       string `json:"title,omitempty"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type memoryResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	OccurredAt string          `json:"occurredAt"`
	CreatedAt  string          `json:"createdAt,omitempty"`
	UpdatedAt  string          `json:"updatedAt,omitempty"`
	Tags       []string        `json:"tags"`
	Category   string          `json:"category"`
	Privacy    string          `json:"privacy"`
	SharedWith []string        `json:"sharedWith,omitempty"`
	AuthorID   string          `json:"authorId"`
	MediaItems []mediaItemBody `json:"mediaItems"`
}

func toResponse(m *memory.Memory) memoryResponse {
	items := make([]mediaItemBody, 0, len(m.MediaItems))
	for _, mi := range m.MediaItems {
		items = append(items, mediaItemBody{
			ID:          mi.ID,
			Type:        string(mi.Kind),
			Title:       mi.Title,
			Content:     mi.Content,
			URL:         mi.Locator,
			Filename:    mi.Filename,
			ContentType: mi.ContentType,
		})
	}

	resp := memoryResponse{
		ID:         m.ID,
		Title:      m.Title,
		Content:    m.Content,
		OccurredAt: m.OccurredAt.UTC().Format(time.RFC3339),
		Tags:       m.Tags,
		Category:   m.Category,
		Privacy:    string(m.Privacy),
		SharedWith: m.SharedWith,
		AuthorID:   m.AuthorID,
		MediaItems: items,
	}
	if !m.CreatedAt.IsZero() {
		resp.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !m.UpdatedAt.IsZero() {
		resp.UpdatedAt = m.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toResponses(records []memory.Memory) []memoryResponse {
	out := make([]memoryResponse, 0, len(records))
	for i := range records {
		out = append(out, toResponse(&records[i]))
	}
	return out
}

func toMediaItems(bodies []mediaItemBody) []memory.MediaItem {
	items := make([]memory.MediaItem, 0, len(bodies))
	for _, b := range bodies {
		items = append(items, memory.MediaItem{
			ID:          b.ID,
			Kind:        memory.MediaKind(b.Type),
			Title:       b.Title,
			Content:     b.Content,
			Locator:     b.URL,
			Filename:    b.Filename,
			ContentType: b.ContentType,
		})
	}
	return items
}

// CreateMemory handles POST /memories.
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	var req memoryRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	occurredAt, err := utils.ParseRFC3339(req.OccurredAt)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "occurredAt must be RFC3339")
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.CreateMemoryCommand{
		Title:      req.Title,
		Content:    req.Content,
		OccurredAt: occurredAt,
		Tags:       req.Tags,
		Category:   req.Category,
		Privacy:    memory.Privacy(req.Privacy),
		SharedWith: req.SharedWith,
		AuthorID:   session.UserID,
		MediaItems: toMediaItems(req.MediaItems),
	})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	common.RespondJSON(w, http.StatusCreated, toResponse(result.(*memory.Memory)))
}

// GetMemory handles GET /memories/{memoryID}.
func (h *MemoryHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "memoryID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetMemoryQuery{ID: id})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	common.RespondJSON(w, http.StatusOK, toResponse(result.(*memory.Memory)))
}

// UpdateMemory handles PUT /memories/{memoryID}.
func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	var req memoryRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	occurredAt, err := utils.ParseRFC3339(req.OccurredAt)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "occurredAt must be RFC3339")
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.UpdateMemoryCommand{
		ID:         chi.URLParam(r, "memoryID"),
		Title:      req.Title,
		Content:    req.Content,
		OccurredAt: occurredAt,
		Tags:       req.Tags,
		Category:   req.Category,
		Privacy:    memory.Privacy(req.Privacy),
		SharedWith: req.SharedWith,
		AuthorID:   session.UserID,
		MediaItems: toMediaItems(req.MediaItems),
	})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	common.RespondJSON(w, http.StatusOK, toResponse(result.(*memory.Memory)))
}

// DeleteMemory handles DELETE /memories/{memoryID}. Deleting an id that is
// already gone still returns 200 with deleted=false.
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.DeleteMemoryCommand{
		ID:       chi.URLParam(r, "memoryID"),
		AuthorID: session.UserID,
	})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{
		"deleted": result.(commands.DeleteMemoryResult).Deleted,
	})
}

// ListMemories handles GET /memories?q=&category=&tag=&mine=.
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	filter := aggregator.Filter{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
	}
	if r.URL.Query().Get("mine") == "true" {
		filter.AuthorID = session.UserID
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListMemoriesQuery{Filter: filter})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	records := result.([]memory.Memory)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"memories": toResponses(records),
		"count":    len(records),
	})
}

// Timeline handles GET /timeline: the session user's records grouped by
// year, newest first.
func (h *MemoryHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.TimelineQuery{AuthorID: session.UserID})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	view := result.(*queries.TimelineView)
	type yearGroup struct {
		Year     int              `json:"year"`
		Memories []memoryResponse `json:"memories"`
	}
	groups := make([]yearGroup, 0, len(view.Groups))
	for _, g := range view.Groups {
		groups = append(groups, yearGroup{Year: g.Year, Memories: toResponses(g.Memories)})
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
		"total":  view.Total,
	})
}

// Dashboard handles GET /dashboard: one stateless composition of the
// filtered list plus the pickers.
func (h *MemoryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.DashboardQuery{
		AuthorID: session.UserID,
		Filter: aggregator.Filter{
			Search:   r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
			Tag:      r.URL.Query().Get("tag"),
		},
	})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	view := result.(*queries.DashboardView)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"memories":   toResponses(view.Memories),
		"tags":       view.Tags,
		"categories": view.Categories,
		"total":      view.Total,
		"shown":      view.Shown,
	})
}
