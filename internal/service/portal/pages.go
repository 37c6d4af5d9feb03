package portal

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/internal/export"
	"github.com/mamadbah2/inventory-portal/internal/view"
)

const msgLoadFailed = "Failed to load data. Please check your connection."

// PageView is the rendered state of one list page.
type PageView struct {
	Page     string              `json:"page"`
	State    view.ListState      `json:"state"`
	Rows     any                 `json:"rows"`
	Total    int                 `json:"total"`
	Matched  int                 `json:"matched"`
	Stats    models.PageStats    `json:"stats"`
	Facets   map[string][]string `json:"facets,omitempty"`
	Query    view.Query          `json:"query"`
	Error    string              `json:"error,omitempty"`
	Retry    bool                `json:"retry,omitempty"`
	Partial  []string            `json:"partial,omitempty"`
	LoadedAt time.Time           `json:"loadedAt,omitempty"`
}

// Page is one list page of the admin area.
type Page interface {
	Name() string
	// Owner is the resource whose creates and deletes change the page.
	Owner() string
	view(ctx context.Context, s *Service, ws *Workspace, q view.Query, refresh bool) *PageView
	table(ctx context.Context, s *Service, ws *Workspace, q view.Query) (export.Table, error)
	insert(ws *Workspace, raw normalize.Raw) bool
	remove(ws *Workspace, id string) bool
}

// pageSpec describes a page over enriched rows of type E.
type pageSpec[E any] struct {
	name    string
	title   string
	primary string
	needs   []string
	owner   string
	// accept filters created records of owner that belong on this page.
	accept func(normalize.Raw) bool
	// builder returns the per-record enricher bound to a dataset. Pages
	// built by aggregation set rows instead.
	builder func(*Dataset) func(normalize.Raw) E
	rows    func(*Dataset) []E
	id      func(E) string
	filter  view.Filter[E]
	options func(*Dataset, []E) map[string][]string
	stats   func([]E) models.PageStats
	headers []string
	cells   func(E) []any
}

func (p *pageSpec[E]) Name() string  { return p.name }
func (p *pageSpec[E]) Owner() string { return p.owner }

func (p *pageSpec[E]) list(ws *Workspace) *view.List[E] {
	e := ws.entry(p.name, func() any { return view.NewList(p.id) })
	return e.list.(*view.List[E])
}

func (p *pageSpec[E]) build(ds *Dataset) []E {
	if p.rows != nil {
		return p.rows(ds)
	}
	enrich := p.builder(ds)
	raws := ds.Raw(p.primary)
	out := make([]E, 0, len(raws))
	for _, raw := range raws {
		out = append(out, enrich(raw))
	}
	return out
}

// ensure loads the page when it is idle, or when refresh asks for it. An
// errored page stays errored until refreshed.
func (p *pageSpec[E]) ensure(ctx context.Context, s *Service, ws *Workspace, refresh bool) *view.List[E] {
	l := p.list(ws)
	switch l.State() {
	case view.ListLoaded, view.ListError:
		if !refresh {
			return l
		}
	}
	if !l.BeginLoad() {
		return l
	}

	ds := s.load(ctx, p.needs...)
	ws.setData(p.name, ds)

	if col := ds.Collection(p.primary); col.Failed() {
		err := fmt.Errorf("page %s: %w: %v", p.name, ErrLoadFailed, col.Err())
		s.logger.Warn("page load failed", zap.String("page", p.name), zap.Error(err))
		l.Failed(err)
		return l
	}

	l.Loaded(p.build(ds))
	return l
}

func (p *pageSpec[E]) view(ctx context.Context, s *Service, ws *Workspace, q view.Query, refresh bool) *PageView {
	snap := p.ensure(ctx, s, ws, refresh).Snapshot()
	pv := &PageView{
		Page:     p.name,
		State:    snap.State,
		Total:    len(snap.Rows),
		Query:    q,
		LoadedAt: snap.LoadedAt,
	}

	if snap.State == view.ListError {
		pv.Rows = []E{}
		pv.Error = msgLoadFailed
		pv.Retry = true
		return pv
	}

	matched := p.filter.Apply(snap.Rows, q)
	pv.Rows = matched
	pv.Matched = len(matched)
	pv.Stats = models.PageStats{Records: len(snap.Rows)}
	if p.stats != nil {
		pv.Stats = p.stats(snap.Rows)
	}

	ds := ws.data(p.name)
	pv.Facets = p.filter.Options(snap.Rows)
	if p.options != nil && ds != nil {
		for name, opts := range p.options(ds, snap.Rows) {
			pv.Facets[name] = opts
		}
	}
	if ds != nil {
		for _, name := range ds.Failed() {
			if name != p.primary {
				pv.Partial = append(pv.Partial, name)
			}
		}
		sort.Strings(pv.Partial)
	}
	return pv
}

func (p *pageSpec[E]) table(ctx context.Context, s *Service, ws *Workspace, q view.Query) (export.Table, error) {
	snap := p.ensure(ctx, s, ws, false).Snapshot()
	if snap.State == view.ListError {
		return export.Table{}, fmt.Errorf("export %s: %w", p.name, ErrLoadFailed)
	}

	matched := p.filter.Apply(snap.Rows, q)
	t := export.Table{Name: p.title, Headers: p.headers, Rows: make([][]any, 0, len(matched))}
	for _, row := range matched {
		t.Rows = append(t.Rows, p.cells(row))
	}
	return t, nil
}

func (p *pageSpec[E]) insert(ws *Workspace, raw normalize.Raw) bool {
	if p.builder == nil || (p.accept != nil && !p.accept(raw)) {
		return false
	}
	ds := ws.data(p.name)
	if ds == nil {
		return false
	}
	return p.list(ws).Insert(p.builder(ds)(raw))
}

func (p *pageSpec[E]) remove(ws *Workspace, id string) bool {
	return p.list(ws).Remove(id)
}

// View returns the enriched, filtered page. Unknown names yield
// ErrUnknownPage; load failures are reported in the view's state.
func (s *Service) View(ctx context.Context, ws *Workspace, page string, q view.Query, refresh bool) (*PageView, error) {
	p, ok := pages[page]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	return p.view(ctx, s, ws, q, refresh), nil
}

// Export returns the filtered page as a table.
func (s *Service) Export(ctx context.Context, ws *Workspace, page string, q view.Query) (export.Table, error) {
	p, ok := pages[page]
	if !ok {
		return export.Table{}, fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	return p.table(ctx, s, ws, q)
}

// Report exports the unfiltered page from a fresh load, outside any session.
func (s *Service) Report(ctx context.Context, page string) (export.Table, error) {
	return s.Export(ctx, newWorkspace(), page, view.Query{})
}

// PageNames lists the defined pages.
func PageNames() []string {
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pagesOwnedBy returns the pages changed by mutations of resource.
func pagesOwnedBy(resource string) []Page {
	var out []Page
	for _, p := range pages {
		if p.Owner() == resource {
			out = append(out, p)
		}
	}
	return out
}
