// Package middleware holds the HTTP middleware for the REST surface.
package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/pkg/auth"
	"github.com/Xazratbek/storybridge-net/pkg/common"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// Authenticate validates the bearer token and puts the session in the
// request context. Unauthenticated requests get a 401 with a Location
// header pointing at the login page.
func Authenticate(validator *auth.JWTValidator, loginURL string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				common.RespondAppError(w, pkgerrors.NewUnauthorizedError("missing authentication token"), loginURL)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("token rejected",
					zap.Error(err),
					zap.String("path", r.URL.Path))

				switch err {
				case auth.ErrExpiredToken:
					common.RespondAppError(w, pkgerrors.NewUnauthorizedError("token has expired"), loginURL)
				case auth.ErrInvalidSignature:
					common.RespondAppError(w, pkgerrors.NewUnauthorizedError("invalid token signature"), loginURL)
				default:
					common.RespondAppError(w, pkgerrors.NewUnauthorizedError("invalid token"), loginURL)
				}
				return
			}

			session := &auth.Session{
				UserID: claims.UserID,
				Email:  claims.Email,
				Name:   claims.Name,
			}
			ctx := auth.SetSessionInContext(r.Context(), session)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the JWT from the Authorization header or the auth
// cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return authHeader
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}
