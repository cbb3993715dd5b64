// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/domain/memory"
)

// MockMemoryRepository is a mock implementation of ports.MemoryRepository.
type MockMemoryRepository struct {
	mock.Mock
}

func (m *MockMemoryRepository) List(ctx context.Context) ([]memory.Memory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]memory.Memory), args.Error(1)
}

func (m *MockMemoryRepository) ListByAuthor(ctx context.Context, authorID string) ([]memory.Memory, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]memory.Memory), args.Error(1)
}

func (m *MockMemoryRepository) GetByID(ctx context.Context, id string) (*memory.Memory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memory.Memory), args.Error(1)
}

func (m *MockMemoryRepository) Create(ctx context.Context, rec *memory.Memory) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockMemoryRepository) Update(ctx context.Context, rec *memory.Memory) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockMemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockMediaStore is a mock implementation of ports.MediaStore.
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, up ports.MediaUpload) (*memory.MediaItem, error) {
	args := m.Called(ctx, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memory.MediaItem), args.Error(1)
}

func (m *MockMediaStore) Open(ctx context.Context, item memory.MediaItem) (ports.MediaHandle, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.MediaHandle), args.Error(1)
}

func (m *MockMediaStore) DeleteAllForRecord(ctx context.Context, recordID string) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

// MockMediaHandle is an in-memory ports.MediaHandle.
type MockMediaHandle struct {
	io.Reader
	Type   string
	Closed bool
}

func (h *MockMediaHandle) Close() error {
	h.Closed = true
	return nil
}

func (h *MockMediaHandle) ContentType() string {
	return h.Type
}

// MockReferenceReader is a mock implementation of ports.ReferenceReader.
type MockReferenceReader struct {
	mock.Mock
}

func (m *MockReferenceReader) Prompts(ctx context.Context) ([]memory.Prompt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]memory.Prompt), args.Error(1)
}

func (m *MockReferenceReader) Categories(ctx context.Context) ([]memory.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]memory.Category), args.Error(1)
}

func (m *MockReferenceReader) ProfileByID(ctx context.Context, userID string) (*memory.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memory.Profile), args.Error(1)
}

// MockAuthProvider is a mock implementation of ports.AuthProvider.
type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) SignUp(ctx context.Context, creds ports.Credentials) (*ports.AuthSession, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AuthSession), args.Error(1)
}

func (m *MockAuthProvider) SignIn(ctx context.Context, creds ports.Credentials) (*ports.AuthSession, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AuthSession), args.Error(1)
}

func (m *MockAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}
