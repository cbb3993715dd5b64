// Package ports defines the interfaces the application layer depends on.
// Infrastructure provides the implementations.
package ports

import (
	"context"
	"io"

	"github.com/Xazratbek/storybridge-net/domain/memory"
)

// MemoryRepository persists memory records.
//
// GetByID returns (nil, nil) when no record exists; Delete returns false for
// an id that is already gone. Both are normal outcomes, not errors.
type MemoryRepository interface {
	List(ctx context.Context) ([]memory.Memory, error)
	ListByAuthor(ctx context.Context, authorID string) ([]memory.Memory, error)
	GetByID(ctx context.Context, id string) (*memory.Memory, error)
	Create(ctx context.Context, m *memory.Memory) error
	Update(ctx context.Context, m *memory.Memory) error
	Delete(ctx context.Context, id string) (bool, error)
}

// MediaUpload is the input to MediaStore.Upload.
type MediaUpload struct {
	RecordID    string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaHandle is an open media stream. Callers must Close it.
type MediaHandle interface {
	io.ReadCloser
	ContentType() string
}

// MediaStore holds attachment payloads. Upload returns the stored item with
// its locator filled in. Open resolves a locator back to a readable stream.
type MediaStore interface {
	Upload(ctx context.Context, up MediaUpload) (*memory.MediaItem, error)
	Open(ctx context.Context, item memory.MediaItem) (MediaHandle, error)
	DeleteAllForRecord(ctx context.Context, recordID string) error
}

// ReferenceReader serves the read-only reference data.
type ReferenceReader interface {
	Prompts(ctx context.Context) ([]memory.Prompt, error)
	Categories(ctx context.Context) ([]memory.Category, error)
	ProfileByID(ctx context.Context, userID string) (*memory.Profile, error)
}

// Credentials are what a user signs in with.
type Credentials struct {
	Email    string
	Password string
}

// AuthSession is the result of a successful sign-in or sign-up.
type AuthSession struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// AuthProvider wraps the identity backend.
type AuthProvider interface {
	SignUp(ctx context.Context, creds Credentials) (*AuthSession, error)
	SignIn(ctx context.Context, creds Credentials) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}
