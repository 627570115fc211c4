package admin

import (
	"slices"
	"strings"
	"sync"
)

// FilterTag is a structured filter such as {type: "status", value: "active"}.
type FilterTag struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

func (f FilterTag) same(other FilterTag) bool {
	return f.Type == other.Type && f.Value == other.Value
}

// Query is the search text plus the active filter tags.
type Query struct {
	Search  string      `json:"search,omitempty"`
	Filters []FilterTag `json:"filters,omitempty"`
}

// IsZero reports whether the query matches everything.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && len(q.Filters) == 0
}

func (q Query) equal(other Query) bool {
	return q.Search == other.Search && slices.Equal(q.Filters, other.Filters)
}

// QuerySpec declares which fields of T are searched and which filter types it supports.
type QuerySpec[T any] struct {
	// SearchFields returns the text fields matched by the search string.
	SearchFields func(rec T) []string
	// Filters maps a tag type to a predicate comparing the record to the tag value.
	Filters map[string]func(rec T, value string) bool
}

// FieldEquals builds a filter predicate comparing a single field to the tag value.
func FieldEquals[T any](field func(T) string) func(T, string) bool {
	return func(rec T, value string) bool {
		return field(rec) == value
	}
}

// FieldContains builds a filter predicate matching when any listed value equals the tag value.
func FieldContains[T any](field func(T) []string) func(T, string) bool {
	return func(rec T, value string) bool {
		return slices.Contains(field(rec), value)
	}
}

// Matches reports whether rec passes the search and every filter tag.
func (spec QuerySpec[T]) Matches(rec T, query Query) bool {
	if !spec.matchesSearch(rec, query.Search) {
		return false
	}
	for _, tag := range query.Filters {
		predicate, ok := spec.Filters[tag.Type]
		if !ok || !predicate(rec, tag.Value) {
			return false
		}
	}
	return true
}

func (spec QuerySpec[T]) matchesSearch(rec T, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	if spec.SearchFields == nil {
		return false
	}
	for _, field := range spec.SearchFields(rec) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// ApplyQuery returns the records visible under query, preserving collection order.
func ApplyQuery[T any](records []T, spec QuerySpec[T], query Query) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if spec.Matches(rec, query) {
			out = append(out, rec)
		}
	}
	return out
}

// View tracks search/filter state for one store and derives the visible list.
// Results are recomputed from the full collection whenever the store version
// or the query changes.
type View[T Record] struct {
	mu     sync.Mutex
	store  *Store[T]
	spec   QuerySpec[T]
	query  Query
	cached struct {
		valid   bool
		version uint64
		query   Query
		records []T
	}
}

// NewView builds a view over store.
func NewView[T Record](store *Store[T], spec QuerySpec[T]) *View[T] {
	return &View[T]{store: store, spec: spec}
}

// SetSearch replaces the search text.
func (v *View[T]) SetSearch(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query.Search = text
}

// SetFilters replaces the active filter tags.
func (v *View[T]) SetFilters(tags []FilterTag) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query.Filters = dedupeTags(tags)
}

// AddFilter activates a tag unless an identical type/value pair is already active.
func (v *View[T]) AddFilter(tag FilterTag) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query.Filters = dedupeTags(append(slices.Clone(v.query.Filters), tag))
}

// RemoveFilter drops the tag matching type and value.
func (v *View[T]) RemoveFilter(tag FilterTag) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query.Filters = slices.DeleteFunc(slices.Clone(v.query.Filters), tag.same)
}

// ClearFilters drops every tag and the search text.
func (v *View[T]) ClearFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = Query{}
}

// Query returns the current query state.
func (v *View[T]) Query() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Query{Search: v.query.Search, Filters: slices.Clone(v.query.Filters)}
}

// Visible returns the records passing the current query.
func (v *View[T]) Visible() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	records, version := v.store.Snapshot()
	if v.cached.valid && v.cached.version == version && v.cached.query.equal(v.query) {
		return slices.Clone(v.cached.records)
	}
	visible := ApplyQuery(records, v.spec, v.query)
	v.cached.valid = true
	v.cached.version = version
	v.cached.query = Query{Search: v.query.Search, Filters: slices.Clone(v.query.Filters)}
	v.cached.records = visible
	return slices.Clone(visible)
}

func dedupeTags(tags []FilterTag) []FilterTag {
	out := make([]FilterTag, 0, len(tags))
	for _, tag := range tags {
		if !slices.ContainsFunc(out, tag.same) {
			out = append(out, tag)
		}
	}
	return out
}

// ParseFilterTag parses "type:value" into a tag.
func ParseFilterTag(raw string) (FilterTag, bool) {
	kind, value, ok := strings.Cut(raw, ":")
	kind = strings.TrimSpace(kind)
	value = strings.TrimSpace(value)
	if !ok || kind == "" || value == "" {
		return FilterTag{}, false
	}
	return FilterTag{Type: kind, Value: value, Label: value}, true
}
