// Package identity implements the auth provider on Supabase GoTrue.
package identity

import (
	"context"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

// AuthProvider implements ports.AuthProvider.
type AuthProvider struct {
	client *supabase.Client
	logger *zap.Logger
}

// NewAuthProvider creates the provider.
func NewAuthProvider(client *supabase.Client, logger *zap.Logger) *AuthProvider {
	return &AuthProvider{client: client, logger: logger}
}

// SignUp registers a new user. When email confirmation is required the
// returned session carries no tokens yet.
func (p *AuthProvider) SignUp(ctx context.Context, creds ports.Credentials) (*ports.AuthSession, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, pkgerrors.NewValidationError("email and password are required")
	}

	resp, err := p.client.Auth.Signup(types.SignupRequest{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return nil, pkgerrors.NewExternalError("auth", err)
	}

	p.logger.Info("user signed up", zap.String("email", creds.Email))

	return &ports.AuthSession{
		UserID:       resp.User.ID.String(),
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// SignIn exchanges credentials for a session.
func (p *AuthProvider) SignIn(ctx context.Context, creds ports.Credentials) (*ports.AuthSession, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, pkgerrors.NewValidationError("email and password are required")
	}

	resp, err := p.client.Auth.SignInWithEmailPassword(creds.Email, creds.Password)
	if err != nil {
		return nil, pkgerrors.NewUnauthorizedError("invalid email or password")
	}

	return &ports.AuthSession{
		UserID:       resp.User.ID.String(),
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// SignOut revokes the session behind the access token.
func (p *AuthProvider) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return pkgerrors.NewUnauthorizedError("no active session")
	}
	if err := p.client.Auth.WithToken(accessToken).Logout(); err != nil {
		return pkgerrors.NewExternalError("auth", err)
	}
	return nil
}
