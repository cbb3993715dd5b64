package postgrest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xazratbek/storybridge-net/domain/memory"
	"github.com/Xazratbek/storybridge-net/tests/fixtures"
)

func TestToRow_SnakeCaseColumns(t *testing.T) {
	m := fixtures.NewMemory().
		WithID("m1").
		WithAuthor("u1").
		WithTags("summer").
		WithOccurredAt(time.Date(2021, 7, 4, 0, 0, 0, 0, time.UTC)).
		WithMedia(memory.MediaItem{
			ID: "med1", Kind: memory.MediaKindImage, Locator: "https://cdn/x.png",
		}).
		Build()

	raw, err := json.Marshal(toRow(&m))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "u1", fields["author_id"])
	assert.Equal(t, "2021-07-04T00:00:00Z", fields["date"])
	assert.Contains(t, fields, "media_items")
	assert.NotContains(t, fields, "occurredAt")
}

func TestFromRow_LegacySingleAttachment(t *testing.T) {
	raw := []byte(`{
		"id": "m2",
		"title": "Old row",
		"content": "written before the migration",
		"date": "2018-03-02",
		"author_id": "u1",
		"media_type": "image",
		"media_url": "https://cdn/legacy.jpg"
	}`)

	var row memoryRow
	require.NoError(t, json.Unmarshal(raw, &row))

	m := fromRow(row)
	assert.Equal(t, 2018, m.OccurredAt.Year())
	require.Len(t, m.MediaItems, 1)
	assert.Equal(t, memory.MediaKindImage, m.MediaItems[0].Kind)
	assert.Equal(t, "https://cdn/legacy.jpg", m.MediaItems[0].Locator)
	assert.Equal(t, memory.CategoryUncategorized, m.Category)
	assert.Equal(t, memory.PrivacyPrivate, m.Privacy)
}

func TestRowRoundTrip(t *testing.T) {
	m := fixtures.NewMemory().
		WithID("m3").
		WithCategory("Travel").
		WithTags("a", "b").
		WithPrivacy(memory.PrivacyShared, "friend@example.com").
		WithMedia(memory.MediaItem{ID: "med2", Kind: memory.MediaKindText, Content: "inline note"}).
		Build()
	m.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m.UpdatedAt = m.CreatedAt

	got := fromRow(toRow(&m))
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Category, got.Category)
	assert.Equal(t, m.Tags, got.Tags)
	assert.Equal(t, m.SharedWith, got.SharedWith)
	assert.True(t, m.OccurredAt.Equal(got.OccurredAt))
	require.Len(t, got.MediaItems, 1)
	assert.Equal(t, "inline note", got.MediaItems[0].Content)
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("not a time").IsZero())
	assert.Equal(t, 2020, parseTime("2020-05-01").Year())
	assert.Equal(t, 2020, parseTime("2020-05-01T10:00:00Z").Year())
}
