package postgrest

import (
	"context"
	"encoding/json"
	"time"

	postgrestgo "github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

const memoriesTable = "memories"

// MemoryRepository implements ports.MemoryRepository on the memories table.
type MemoryRepository struct {
	client *supabase.Client
	logger *zap.Logger
}

// NewMemoryRepository creates the repository.
func NewMemoryRepository(client *supabase.Client, logger *zap.Logger) *MemoryRepository {
	return &MemoryRepository{client: client, logger: logger}
}

// List returns every record in the table, newest event first.
func (r *MemoryRepository) List(ctx context.Context) ([]memory.Memory, error) {
	data, _, err := r.client.From(memoriesTable).
		Select("*", "", false).
		Order("date", &postgrestgo.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list memories", err)
	}
	return r.decodeRows(data)
}

// ListByAuthor returns one user's records.
func (r *MemoryRepository) ListByAuthor(ctx context.Context, authorID string) ([]memory.Memory, error) {
	data, _, err := r.client.From(memoriesTable).
		Select("*", "", false).
		Eq("author_id", authorID).
		Execute()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list memories by author", err)
	}
	return r.decodeRows(data)
}

// GetByID returns (nil, nil) when no row matches.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*memory.Memory, error) {
	data, _, err := r.client.From(memoriesTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get memory", err)
	}

	rows, err := r.decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Create inserts a new row and copies the store-assigned timestamps back
// onto the record.
func (r *MemoryRepository) Create(ctx context.Context, m *memory.Memory) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	data, _, err := r.client.From(memoriesTable).
		Insert(toRow(m), false, "", "representation", "").
		Execute()
	if err != nil {
		return pkgerrors.NewDatabaseError("create memory", err)
	}

	rows, err := r.decodeRows(data)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		m.CreatedAt = rows[0].CreatedAt
		m.UpdatedAt = rows[0].UpdatedAt
	}

	r.logger.Debug("memory row inserted", zap.String("memory_id", m.ID))
	return nil
}

// Update replaces the row's mutable columns.
func (r *MemoryRepository) Update(ctx context.Context, m *memory.Memory) error {
	m.UpdatedAt = time.Now().UTC()

	row := toRow(m)
	row.ID = "" // the key is carried by the filter, not the payload
	row.CreatedAt = ""

	_, _, err := r.client.From(memoriesTable).
		Update(row, "", "").
		Eq("id", m.ID).
		Execute()
	if err != nil {
		return pkgerrors.NewDatabaseError("update memory", err)
	}
	return nil
}

// Delete removes the row and reports whether one existed. Deleting a
// missing id is not an error.
func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	data, _, err := r.client.From(memoriesTable).
		Delete("representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return false, pkgerrors.NewDatabaseError("delete memory", err)
	}

	var deleted []json.RawMessage
	if err := json.Unmarshal(data, &deleted); err != nil {
		return false, pkgerrors.NewDatabaseError("decode delete response", err)
	}
	return len(deleted) > 0, nil
}

func (r *MemoryRepository) decodeRows(data []byte) ([]memory.Memory, error) {
	var rows []memoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, pkgerrors.NewDatabaseError("decode memory rows", err)
	}
	out := make([]memory.Memory, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}
