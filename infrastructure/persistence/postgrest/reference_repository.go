package postgrest

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/supabase-go"

	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"
)

const (
	promptsTable    = "prompts"
	categoriesTable = "categories"
	profilesTable   = "profiles"
)

// ReferenceRepository implements ports.ReferenceReader on the reference
// tables. All three sets are read-only from this service's point of view.
type ReferenceRepository struct {
	client *supabase.Client
}

// NewReferenceRepository creates the repository.
func NewReferenceRepository(client *supabase.Client) *ReferenceRepository {
	return &ReferenceRepository{client: client}
}

// Prompts returns the writing prompts.
func (r *ReferenceRepository) Prompts(ctx context.Context) ([]memory.Prompt, error) {
	data, _, err := r.client.From(promptsTable).
		Select("*", "", false).
		Execute()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list prompts", err)
	}

	var rows []promptRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, pkgerrors.NewDatabaseError("decode prompt rows", err)
	}

	out := make([]memory.Prompt, 0, len(rows))
	for _, row := range rows {
		out = append(out, memory.Prompt{ID: row.ID, Question: row.Question, Category: row.Category})
	}
	return out, nil
}

// Categories returns the category reference set.
func (r *ReferenceRepository) Categories(ctx context.Context) ([]memory.Category, error) {
	data, _, err := r.client.From(categoriesTable).
		Select("*", "", false).
		Execute()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list categories", err)
	}

	var rows []categoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, pkgerrors.NewDatabaseError("decode category rows", err)
	}

	out := make([]memory.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, memory.Category{ID: row.ID, Name: row.Name, Description: row.Description})
	}
	return out, nil
}

// ProfileByID returns (nil, nil) when the user has no profile row.
func (r *ReferenceRepository) ProfileByID(ctx context.Context, userID string) (*memory.Profile, error) {
	data, _, err := r.client.From(profilesTable).
		Select("*", "", false).
		Eq("id", userID).
		Execute()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get profile", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, pkgerrors.NewDatabaseError("decode profile rows", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &memory.Profile{
		ID:            row.ID,
		DisplayName:   row.DisplayName,
		Email:         row.Email,
		AvatarLocator: row.AvatarURL,
	}, nil
}
