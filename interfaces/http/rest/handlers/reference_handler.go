package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/pkg/auth"
	"github.com/Xazratbek/storybridge-net/pkg/common"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// ReferenceHandler serves the read-only reference data: prompts,
// categories, and the session user's profile.
type ReferenceHandler struct {
	reader   ports.ReferenceReader
	loginURL string
	logger   *zap.Logger
}

// NewReferenceHandler creates the handler.
func NewReferenceHandler(reader ports.ReferenceReader, loginURL string, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{reader: reader, loginURL: loginURL, logger: logger}
}

type promptResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Category string `json:"category"`
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type profileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Prompts handles GET /prompts.
func (h *ReferenceHandler) Prompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.reader.Prompts(r.Context())
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	out := make([]promptResponse, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, promptResponse{ID: p.ID, Question: p.Question, Category: p.Category})
	}
	common.RespondJSON(w, http.StatusOK, out)
}

// Categories handles GET /categories.
func (h *ReferenceHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.reader.Categories(r.Context())
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	common.RespondJSON(w, http.StatusOK, out)
}

// Profile handles GET /profile for the session user.
func (h *ReferenceHandler) Profile(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	profile, err := h.reader.ProfileByID(r.Context(), session.UserID)
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}
	if profile == nil {
		// No profile row yet; fall back to the token's identity.
		common.RespondJSON(w, http.StatusOK, profileResponse{
			ID:          session.UserID,
			DisplayName: session.Name,
			Email:       session.Email,
		})
		return
	}

	common.RespondJSON(w, http.StatusOK, profileResponse{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
		AvatarURL:   profile.AvatarLocator,
	})
}
