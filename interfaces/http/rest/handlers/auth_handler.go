package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/pkg/auth"
	"github.com/Xazratbek/storybridge-net/pkg/common"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
	"github.com/Xazratbek/storybridge-net/pkg/utils"
)

// AuthHandler serves signup, signin, signout and session inspection.
type AuthHandler struct {
	provider ports.AuthProvider
	loginURL string
	logger   *zap.Logger
}

// NewAuthHandler creates the handler.
func NewAuthHandler(provider ports.AuthProvider, loginURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, loginURL: loginURL, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type sessionResponse struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn,omitempty"`
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	session, err := h.provider.SignUp(r.Context(), ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	common.RespondJSON(w, http.StatusCreated, sessionResponse{
		UserID:       session.UserID,
		Email:        session.Email,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
	})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	session, err := h.provider.SignIn(r.Context(), ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	h.logger.Info("user signed in", zap.String("user_id", session.UserID))

	common.RespondJSON(w, http.StatusOK, sessionResponse{
		UserID:       session.UserID,
		Email:        session.Email,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
	})
}

// SignOut handles POST /auth/signout. It revokes the bearer token the
// request carries.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := extractBearer(r)
	if token == "" {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError("no active session"), h.loginURL)
		return
	}

	if err := h.provider.SignOut(r.Context(), token); err != nil {
		common.RespondAppError(w, err, h.loginURL)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{"signedOut": true})
}

// Session handles GET /auth/session for an authenticated request.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError(""), h.loginURL)
		return
	}

	common.RespondJSON(w, http.StatusOK, sessionResponse{
		UserID: session.UserID,
		Email:  session.Email,
	})
}

func extractBearer(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
