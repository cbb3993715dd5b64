package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xazratbek/storybridge-net/domain/memory"
)

func mem(id, title, content, category string, tags []string, occurred time.Time) memory.Memory {
	m := memory.Memory{
		ID:         id,
		Title:      title,
		Content:    content,
		Category:   category,
		Tags:       tags,
		OccurredAt: occurred,
		AuthorID:   "user-1",
	}
	m.Normalize()
	return m
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []memory.Memory {
	return []memory.Memory{
		mem("1", "Lake trip", "we swam all day", "Travel", []string{"summer", "family"}, date(2021, 7, 4)),
		mem("2", "Graduation", "cap and gown", "Milestones", []string{"family"}, date(2019, 6, 1)),
		mem("3", "New apartment", "moving boxes everywhere", "Home", []string{"city"}, date(2021, 2, 10)),
		mem("4", "Grandma's pie recipe", "flour, butter, patience", "", []string{"food", "family"}, date(2019, 11, 23)),
	}
}

func TestApply_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := Apply(sampleRecords(), Filter{Search: "LAKE"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	// matches content too
	got = Apply(sampleRecords(), Filter{Search: "boxes"})
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestApply_CategoryExactMatch(t *testing.T) {
	got := Apply(sampleRecords(), Filter{Category: "Travel"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	// the uncategorized sentinel is a real category value
	got = Apply(sampleRecords(), Filter{Category: memory.CategoryUncategorized})
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)
}

func TestApply_TagMembership(t *testing.T) {
	got := Apply(sampleRecords(), Filter{Tag: "family"})
	assert.Len(t, got, 3)
}

func TestApply_SentinelsImposeNoConstraint(t *testing.T) {
	all := Apply(sampleRecords(), Filter{Category: FilterAll, Tag: FilterAll})
	assert.Len(t, all, len(sampleRecords()))
	assert.True(t, Filter{Category: FilterAll, Tag: FilterAll}.IsZero())
}

func TestApply_ConstraintsCombineWithAND(t *testing.T) {
	got := Apply(sampleRecords(), Filter{Search: "pie", Tag: "family"})
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)

	got = Apply(sampleRecords(), Filter{Search: "pie", Tag: "city"})
	assert.Empty(t, got)
}

func TestApply_AuthorFilter(t *testing.T) {
	records := sampleRecords()
	records[2].AuthorID = "user-2"

	got := Apply(records, Filter{AuthorID: "user-1"})
	assert.Len(t, got, 3)
	for _, m := range got {
		assert.Equal(t, "user-1", m.AuthorID)
	}
}

func TestApply_ResultIsSubsetAndIdempotent(t *testing.T) {
	f := Filter{Tag: "family"}
	once := Apply(sampleRecords(), f)
	twice := Apply(once, f)
	assert.Equal(t, once, twice)

	ids := map[string]bool{}
	for _, m := range sampleRecords() {
		ids[m.ID] = true
	}
	for _, m := range once {
		assert.True(t, ids[m.ID])
	}
}

func TestSortByDateDesc(t *testing.T) {
	sorted := SortByDateDesc(sampleRecords())
	require.Len(t, sorted, 4)
	for i := 1; i < len(sorted); i++ {
		assert.False(t, sorted[i].OccurredAt.After(sorted[i-1].OccurredAt),
			"records out of order at %d", i)
	}
	assert.Equal(t, "1", sorted[0].ID)
}

func TestSortByDateDesc_StableOnTies(t *testing.T) {
	same := date(2020, 1, 1)
	records := []memory.Memory{
		mem("a", "first", "", "", nil, same),
		mem("b", "second", "", "", nil, same),
	}
	sorted := SortByDateDesc(records)
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
}

func TestGroupByYear_PartitionsNewestFirst(t *testing.T) {
	groups := GroupByYear(sampleRecords())
	require.Len(t, groups, 2)
	assert.Equal(t, 2021, groups[0].Year)
	assert.Equal(t, 2019, groups[1].Year)

	total := 0
	for _, g := range groups {
		require.NotEmpty(t, g.Memories)
		total += len(g.Memories)
		for _, m := range g.Memories {
			assert.Equal(t, g.Year, m.Year())
		}
	}
	assert.Equal(t, len(sampleRecords()), total)
}

func TestGroupByYear_Empty(t *testing.T) {
	assert.Empty(t, GroupByYear(nil))
}

func TestTagPool_DistinctFirstSeenOrderFromUnfilteredSet(t *testing.T) {
	pool := TagPool(sampleRecords())
	assert.Equal(t, []string{"summer", "family", "city", "food"}, pool)

	// the pool must not shrink when the view is filtered
	filtered := Apply(sampleRecords(), Filter{Tag: "city"})
	assert.NotEqual(t, TagPool(filtered), pool)
	assert.Equal(t, []string{"city"}, TagPool(filtered))
}

func TestCategoryPool(t *testing.T) {
	pool := CategoryPool(sampleRecords())
	assert.Equal(t, []string{"Home", "Milestones", "Travel", memory.CategoryUncategorized}, pool)
}
