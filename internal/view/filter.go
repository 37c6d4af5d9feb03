package view

import "strings"

// Query is the user's current search text and dropdown selections, keyed by
// facet name.
type Query struct {
	Search     string            `json:"search"`
	Selections map[string]string `json:"selections,omitempty"`
}

// Facet is a categorical dropdown filter. All is the sentinel meaning "no
// filter".
type Facet[E any] struct {
	Name  string
	All   string
	Value func(E) string
}

// Filter describes the searchable fields and facets of one page.
type Filter[E any] struct {
	Search []func(E) string
	Facets []Facet[E]
}

// Apply returns the rows matching q, in their original order. The search
// text matches when it is a case-insensitive substring of any search field;
// each facet selection other than its sentinel must match exactly. All
// conditions are ANDed.
func (f Filter[E]) Apply(rows []E, q Query) []E {
	out := make([]E, 0, len(rows))
	for _, row := range rows {
		if f.Matches(row, q) {
			out = append(out, row)
		}
	}
	return out
}

// Matches reports whether a single row passes q.
func (f Filter[E]) Matches(row E, q Query) bool {
	return f.matchesSearch(row, q.Search) && f.matchesFacets(row, q.Selections)
}

func (f Filter[E]) matchesSearch(row E, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range f.Search {
		if strings.Contains(strings.ToLower(field(row)), needle) {
			return true
		}
	}
	return false
}

func (f Filter[E]) matchesFacets(row E, selections map[string]string) bool {
	for _, facet := range f.Facets {
		selected, ok := selections[facet.Name]
		if !ok || selected == "" || selected == facet.All {
			continue
		}
		if facet.Value(row) != selected {
			return false
		}
	}
	return true
}

// Options returns the dropdown entries of every facet: the sentinel followed
// by the distinct values present in rows, in first-seen order.
func (f Filter[E]) Options(rows []E) map[string][]string {
	out := make(map[string][]string, len(f.Facets))
	for _, facet := range f.Facets {
		values := []string{facet.All}
		seen := map[string]struct{}{facet.All: {}}
		for _, row := range rows {
			v := facet.Value(row)
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		out[facet.Name] = values
	}
	return out
}

// FacetNames lists the facet names in declaration order.
func (f Filter[E]) FacetNames() []string {
	names := make([]string, 0, len(f.Facets))
	for _, facet := range f.Facets {
		names = append(names, facet.Name)
	}
	return names
}
