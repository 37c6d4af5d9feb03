package portal

import (
	"sync"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
)

// Workspace is the transient state of one session: the loaded page lists,
// the forms and the last user lookup. None of it is authoritative.
type Workspace struct {
	mu     sync.Mutex
	pages  map[string]*pageEntry
	forms  map[string]*Form
	lookup models.UserLookup
}

type pageEntry struct {
	list any
	data *Dataset
}

func newWorkspace() *Workspace {
	return &Workspace{
		pages:  make(map[string]*pageEntry),
		forms:  make(map[string]*Form),
		lookup: models.UserLookup{Status: models.LookupUnchecked},
	}
}

func (w *Workspace) entry(page string, create func() any) *pageEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.pages[page]
	if !ok {
		e = &pageEntry{list: create()}
		w.pages[page] = e
	}
	return e
}

func (w *Workspace) setData(page string, data *Dataset) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.pages[page]; ok {
		e.data = data
	}
}

func (w *Workspace) data(page string) *Dataset {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.pages[page]; ok {
		return e.data
	}
	return nil
}

// invalidate forgets a page so the next view reloads it.
func (w *Workspace) invalidate(page string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pages, page)
}

// Form returns the state machine of the named form.
func (w *Workspace) Form(kind string) *Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, ok := w.forms[kind]
	if !ok {
		f = NewForm()
		w.forms[kind] = f
	}
	return f
}

// Lookup returns the last user lookup.
func (w *Workspace) Lookup() models.UserLookup {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lookup
}

func (w *Workspace) setLookup(l models.UserLookup) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lookup = l
}

// Workspaces maps session tokens to their workspace.
type Workspaces struct {
	mu sync.Mutex
	m  map[string]*Workspace
}

// NewWorkspaces returns an empty registry.
func NewWorkspaces() *Workspaces {
	return &Workspaces{m: make(map[string]*Workspace)}
}

// Get returns the workspace of token, creating it on first use.
func (r *Workspaces) Get(token string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.m[token]
	if !ok {
		ws = newWorkspace()
		r.m[token] = ws
	}
	return ws
}

// Drop discards the workspace of token.
func (r *Workspaces) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, token)
}

// Len reports the number of live workspaces.
func (r *Workspaces) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}
