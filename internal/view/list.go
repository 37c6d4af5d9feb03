package view

import (
	"sync"
	"time"
)

// ListState is the load state of a list page.
type ListState string

const (
	ListIdle    ListState = "idle"
	ListLoading ListState = "loading"
	ListLoaded  ListState = "loaded"
	ListError   ListState = "error"
)

// Snapshot is a consistent read of a List.
type Snapshot[E any] struct {
	State    ListState `json:"state"`
	Rows     []E       `json:"rows"`
	Error    string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
}

// List is the in-memory, non-authoritative copy of one page's enriched rows.
// It moves idle -> loading -> loaded|error and may be reloaded from any
// settled state.
type List[E any] struct {
	mu       sync.RWMutex
	id       func(E) string
	state    ListState
	rows     []E
	err      string
	loadedAt time.Time
}

// NewList returns an idle list keyed by id.
func NewList[E any](id func(E) string) *List[E] {
	return &List[E]{id: id, state: ListIdle}
}

// BeginLoad moves the list to loading. It reports false when a load is
// already in flight.
func (l *List[E]) BeginLoad() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == ListLoading {
		return false
	}
	l.state = ListLoading
	return true
}

// Loaded settles the list with rows.
func (l *List[E]) Loaded(rows []E) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = ListLoaded
	l.rows = rows
	l.err = ""
	l.loadedAt = time.Now()
}

// Failed settles the list in the error state. Previously loaded rows are
// dropped so the page shows the retry state instead of stale data.
func (l *List[E]) Failed(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = ListError
	l.rows = nil
	l.err = ""
	if err != nil {
		l.err = err.Error()
	}
}

// Snapshot returns the current state and a copy of the rows.
func (l *List[E]) Snapshot() Snapshot[E] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rows := make([]E, len(l.rows))
	copy(rows, l.rows)
	return Snapshot[E]{State: l.state, Rows: rows, Error: l.err, LoadedAt: l.loadedAt}
}

// State returns the current load state.
func (l *List[E]) State() ListState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Insert prepends row. Only loaded lists are updated; it reports whether the
// row was applied.
func (l *List[E]) Insert(row E) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListLoaded {
		return false
	}
	rows := make([]E, 0, len(l.rows)+1)
	rows = append(rows, row)
	l.rows = append(rows, l.rows...)
	return true
}

// Remove drops every row with the given id and reports whether any matched.
func (l *List[E]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.rows[:0:0]
	for _, row := range l.rows {
		if l.id(row) != id {
			kept = append(kept, row)
		}
	}
	removed := len(kept) != len(l.rows)
	l.rows = kept
	return removed
}
