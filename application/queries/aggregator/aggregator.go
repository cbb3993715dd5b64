// Package aggregator contains the pure record-shaping logic shared by the
// dashboard and timeline queries: filtering, ordering, year grouping, and
// the tag pool.
package aggregator

import (
	"sort"
	"strings"

	"github.com/Xazratbek/storybridge-net/domain/memory"
)

// FilterAll is the sentinel meaning "no constraint" for the category and
// tag filters.
const FilterAll = "all"

// Filter narrows a record set. Zero-value and sentinel fields impose no
// constraint; populated fields combine with AND.
type Filter struct {
	Search   string
	Category string
	Tag      string
	AuthorID string
}

// IsZero reports whether the filter imposes no constraint at all.
func (f Filter) IsZero() bool {
	return f.Search == "" &&
		(f.Category == "" || f.Category == FilterAll) &&
		(f.Tag == "" || f.Tag == FilterAll) &&
		f.AuthorID == ""
}

// Matches reports whether a single record passes the filter.
func (f Filter) Matches(m memory.Memory) bool {
	if f.AuthorID != "" && m.AuthorID != f.AuthorID {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.Title), needle) &&
			!strings.Contains(strings.ToLower(m.Content), needle) {
			return false
		}
	}
	if f.Category != "" && f.Category != FilterAll && m.Category != f.Category {
		return false
	}
	if f.Tag != "" && f.Tag != FilterAll && !m.HasTag(f.Tag) {
		return false
	}
	return true
}

// Apply returns the records that pass the filter, preserving input order.
func Apply(records []memory.Memory, f Filter) []memory.Memory {
	out := make([]memory.Memory, 0, len(records))
	for _, m := range records {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// SortByDateDesc orders records newest event first. Records sharing an
// event date keep their relative input order.
func SortByDateDesc(records []memory.Memory) []memory.Memory {
	out := make([]memory.Memory, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	return out
}

// YearGroup is one timeline bucket.
type YearGroup struct {
	Year     int
	Memories []memory.Memory
}

// GroupByYear partitions date-descending records into year buckets, newest
// year first. Every record lands in exactly one bucket and no bucket is
// empty.
func GroupByYear(records []memory.Memory) []YearGroup {
	sorted := SortByDateDesc(records)
	groups := make([]YearGroup, 0)
	for _, m := range sorted {
		y := m.Year()
		if n := len(groups); n > 0 && groups[n-1].Year == y {
			groups[n-1].Memories = append(groups[n-1].Memories, m)
			continue
		}
		groups = append(groups, YearGroup{Year: y, Memories: []memory.Memory{m}})
	}
	return groups
}

// TagPool collects the distinct tags across a record set in first-seen
// order. The pool is always computed from the unfiltered set so the tag
// picker does not shrink as filters narrow the view.
func TagPool(records []memory.Memory) []string {
	seen := make(map[string]bool)
	pool := make([]string, 0)
	for _, m := range records {
		for _, t := range m.Tags {
			if !seen[t] {
				seen[t] = true
				pool = append(pool, t)
			}
		}
	}
	return pool
}

// CategoryPool collects the distinct categories across a record set, sorted
// alphabetically.
func CategoryPool(records []memory.Memory) []string {
	seen := make(map[string]bool)
	pool := make([]string, 0)
	for _, m := range records {
		if !seen[m.Category] {
			seen[m.Category] = true
			pool = append(pool, m.Category)
		}
	}
	sort.Strings(pool)
	return pool
}
