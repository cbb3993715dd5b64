// Package dualstore composes two memory repositories into one. Writes go to
// both backends and succeed when either accepts; reads prefer the primary
// and fall back to the secondary. The stores are not reconciled: a record
// may exist in only one of them.
package dualstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/domain/memory"
)

// Store implements ports.MemoryRepository over a primary and a secondary
// backend.
type Store struct {
	primary   ports.MemoryRepository
	secondary ports.MemoryRepository
	logger    *zap.Logger
}

// New creates the composite store.
func New(primary, secondary ports.MemoryRepository, logger *zap.Logger) *Store {
	return &Store{primary: primary, secondary: secondary, logger: logger}
}

// List reads from the primary, falling back to the secondary when the
// primary is unreachable.
func (s *Store) List(ctx context.Context) ([]memory.Memory, error) {
	records, err := s.primary.List(ctx)
	if err == nil {
		return records, nil
	}
	s.logger.Warn("primary list failed, reading secondary", zap.Error(err))
	return s.secondary.List(ctx)
}

// ListByAuthor reads from the primary, falling back to the secondary.
func (s *Store) ListByAuthor(ctx context.Context, authorID string) ([]memory.Memory, error) {
	records, err := s.primary.ListByAuthor(ctx, authorID)
	if err == nil {
		return records, nil
	}
	s.logger.Warn("primary list failed, reading secondary",
		zap.String("author_id", authorID), zap.Error(err))
	return s.secondary.ListByAuthor(ctx, authorID)
}

// GetByID checks the primary first. Because writes succeed on either
// backend, absence in the primary still consults the secondary.
func (s *Store) GetByID(ctx context.Context, id string) (*memory.Memory, error) {
	m, err := s.primary.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("primary get failed, reading secondary",
			zap.String("memory_id", id), zap.Error(err))
		return s.secondary.GetByID(ctx, id)
	}
	if m != nil {
		return m, nil
	}
	return s.secondary.GetByID(ctx, id)
}

// Create writes to both backends. The write succeeds when either backend
// accepts it; only a double failure is an error.
func (s *Store) Create(ctx context.Context, m *memory.Memory) error {
	primaryErr := s.primary.Create(ctx, m)
	secondaryErr := s.secondary.Create(ctx, m)
	return s.resolveWrite("create", m.ID, primaryErr, secondaryErr)
}

// Update writes to both backends with the same either-succeeds rule.
func (s *Store) Update(ctx context.Context, m *memory.Memory) error {
	primaryErr := s.primary.Update(ctx, m)
	secondaryErr := s.secondary.Update(ctx, m)
	return s.resolveWrite("update", m.ID, primaryErr, secondaryErr)
}

// Delete removes the record from both backends. It reports true when
// either backend removed a record; an id present in neither reports false.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	primaryDeleted, primaryErr := s.primary.Delete(ctx, id)
	secondaryDeleted, secondaryErr := s.secondary.Delete(ctx, id)

	if primaryErr != nil && secondaryErr != nil {
		return false, primaryErr
	}
	if primaryErr != nil || secondaryErr != nil {
		s.logger.Warn("delete reached only one store",
			zap.String("memory_id", id),
			zap.NamedError("primary", primaryErr),
			zap.NamedError("secondary", secondaryErr))
	}
	return primaryDeleted || secondaryDeleted, nil
}

func (s *Store) resolveWrite(op, id string, primaryErr, secondaryErr error) error {
	if primaryErr != nil && secondaryErr != nil {
		return primaryErr
	}
	if primaryErr != nil || secondaryErr != nil {
		s.logger.Warn("write reached only one store",
			zap.String("op", op),
			zap.String("memory_id", id),
			zap.NamedError("primary", primaryErr),
			zap.NamedError("secondary", secondaryErr))
	}
	return nil
}
