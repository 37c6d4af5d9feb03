package portal

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/internal/view"
	"github.com/mamadbah2/inventory-portal/pkg/clients/inventory"
)

// maxParallelFetches bounds the collections fetched at once for one page.
const maxParallelFetches = 6

// Dataset is the set of collections one page needs, normalized and indexed.
type Dataset struct {
	collections map[string]inventory.Collection

	Items       []models.Item
	Users       []models.User
	Departments []models.Department
	Offices     []models.Office
	Suppliers   []models.Supplier

	ItemIndex       map[string]models.Item
	UserIndex       map[string]models.User
	DepartmentIndex map[string]models.Department
	OfficeIndex     map[string]models.Office
	SupplierIndex   map[string]models.Supplier
}

// Collection returns the fetch result of name.
func (d *Dataset) Collection(name string) inventory.Collection {
	return d.collections[name]
}

// Raw returns the raw records of name.
func (d *Dataset) Raw(name string) []normalize.Raw {
	return d.collections[name].Records
}

// Failed lists the loaded collections whose every path failed.
func (d *Dataset) Failed() []string {
	var out []string
	for name, col := range d.collections {
		if col.Failed() {
			out = append(out, name)
		}
	}
	return out
}

// load fetches every named resource concurrently and builds the lookup
// indices. Missing collections simply stay empty.
func (s *Service) load(ctx context.Context, names ...string) *Dataset {
	var (
		mu  sync.Mutex
		out = make(map[string]inventory.Collection, len(names))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for _, name := range names {
		res, ok := s.endpoints.Resource(name)
		if !ok {
			s.logger.Warn("unknown resource requested", zap.String("resource", name))
			continue
		}
		g.Go(func() error {
			col := s.client.Fetch(gctx, res)
			mu.Lock()
			out[name] = col
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return newDataset(out)
}

func newDataset(cols map[string]inventory.Collection) *Dataset {
	d := &Dataset{collections: cols}

	d.Items = normalize.All(cols[config.ResourceItems].Records, normalize.Item)
	d.Users = normalize.All(cols[config.ResourceUsers].Records, normalize.User)
	d.Departments = normalize.All(cols[config.ResourceDepartments].Records, normalize.Department)
	d.Offices = normalize.All(cols[config.ResourceOffices].Records, normalize.Office)
	d.Suppliers = normalize.All(cols[config.ResourceSuppliers].Records, normalize.Supplier)

	d.ItemIndex = view.Index(d.Items, func(i models.Item) string { return i.ID })
	d.UserIndex = view.Index(d.Users, func(u models.User) string { return u.ID })
	d.DepartmentIndex = view.Index(d.Departments, func(dep models.Department) string { return dep.ID })
	d.OfficeIndex = view.Index(d.Offices, func(o models.Office) string { return o.ID })
	d.SupplierIndex = view.Index(d.Suppliers, func(sup models.Supplier) string { return sup.ID })

	return d
}
