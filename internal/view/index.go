// Package view holds the enrich-and-filter view model shared by every list
// page: lookup indices, foreign-key enrichment, search and facet filtering,
// and the in-memory list state.
package view

// Index maps each record's identifier to the record. Later duplicates
// overwrite earlier ones.
func Index[T any](records []T, id func(T) string) map[string]T {
	out := make(map[string]T, len(records))
	for _, rec := range records {
		out[id(rec)] = rec
	}
	return out
}
