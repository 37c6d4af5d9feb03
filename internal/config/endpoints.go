package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resource names known to the portal.
const (
	ResourceItems       = "items"
	ResourceUsers       = "users"
	ResourceTeachers    = "teachers"
	ResourceStaff       = "staff"
	ResourceDepartments = "departments"
	ResourceOffices     = "offices"
	ResourceSuppliers   = "suppliers"
	ResourceStockIns    = "stockins"
	ResourceStockOuts   = "stockouts"
	ResourceDeadstocks  = "deadstocks"
)

// Resource describes one logical backend collection. Read holds the ordered
// list of paths the fetcher probes; the first one returning a non-empty list
// wins.
type Resource struct {
	Name   string   `yaml:"name"`
	Read   []string `yaml:"read"`
	Create string   `yaml:"create,omitempty"`
	Delete string   `yaml:"delete,omitempty"`
	Get    string   `yaml:"get,omitempty"`
}

// DeletePath expands the delete template with the escaped record id.
func (r Resource) DeletePath(id string) string {
	return strings.ReplaceAll(r.Delete, ":id", url.PathEscape(id))
}

// GetPath expands the single-record template with the escaped record id.
func (r Resource) GetPath(id string) string {
	return strings.ReplaceAll(r.Get, ":id", url.PathEscape(id))
}

// Endpoints is the set of resource descriptors plus the login path.
type Endpoints struct {
	Login     string              `yaml:"login"`
	Resources map[string]Resource `yaml:"resources"`
}

// Resource returns the descriptor registered under name.
func (e Endpoints) Resource(name string) (Resource, bool) {
	r, ok := e.Resources[name]
	return r, ok
}

// MustResource returns the descriptor registered under name or panics. Used
// for the built-in names only.
func (e Endpoints) MustResource(name string) Resource {
	r, ok := e.Resources[name]
	if !ok {
		panic(fmt.Sprintf("config: unknown resource %q", name))
	}
	return r
}

// DefaultEndpoints mirrors the backend contract, including the historical
// stock-in/stock-out path spellings.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login: "/api/users/login",
		Resources: map[string]Resource{
			ResourceItems: {
				Name:   ResourceItems,
				Read:   []string{"/api/items/get"},
				Create: "/api/items/create",
			},
			ResourceUsers: {
				Name:   ResourceUsers,
				Read:   []string{"/api/users/get"},
				Create: "/api/users/create",
				Delete: "/api/users/delete/:id",
				Get:    "/api/users/get/:id",
			},
			ResourceTeachers: {
				Name:   ResourceTeachers,
				Read:   []string{"/api/users/get-teachers"},
				Delete: "/api/users/delete/:id",
			},
			ResourceStaff: {
				Name:   ResourceStaff,
				Read:   []string{"/api/users/get-staff"},
				Delete: "/api/users/delete/:id",
			},
			ResourceDepartments: {
				Name:   ResourceDepartments,
				Read:   []string{"/api/departments/get"},
				Create: "/api/departments/create",
				Delete: "/api/departments/delete/:id",
			},
			ResourceOffices: {
				Name:   ResourceOffices,
				Read:   []string{"/api/offices/get"},
				Create: "/api/offices/create",
				Delete: "/api/offices/delete/:id",
			},
			ResourceSuppliers: {
				Name:   ResourceSuppliers,
				Read:   []string{"/api/suppliers/get"},
				Create: "/api/suppliers/create",
			},
			ResourceStockIns: {
				Name: ResourceStockIns,
				Read: []string{
					"/api/stockins/get",
					"/api/stock-ins/get",
					"/api/stockin/get",
					"/api/stock-in/get",
				},
				Create: "/api/stockins/create",
			},
			ResourceStockOuts: {
				Name: ResourceStockOuts,
				Read: []string{
					"/api/stockouts/get",
					"/api/stock-outs/get",
					"/api/stockout/get",
					"/api/stock-out/get",
				},
				Create: "/api/stockouts/create",
			},
			ResourceDeadstocks: {
				Name:   ResourceDeadstocks,
				Read:   []string{"/api/deadstocks/get"},
				Create: "/api/deadstocks/create",
				Delete: "/api/deadstocks/delete/:id",
			},
		},
	}
}

// LoadEndpoints returns the default descriptors overlaid with the YAML file at
// path. Resources present in the file replace the defaults field by field;
// an empty path returns the defaults.
func LoadEndpoints(path string) (Endpoints, error) {
	endpoints := DefaultEndpoints()
	if path == "" {
		return endpoints, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Endpoints{}, fmt.Errorf("read endpoints file %s: %w", path, err)
	}

	return mergeEndpoints(endpoints, raw)
}

func mergeEndpoints(base Endpoints, raw []byte) (Endpoints, error) {
	var override Endpoints
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return Endpoints{}, fmt.Errorf("decode endpoints: %w", err)
	}

	if override.Login != "" {
		base.Login = override.Login
	}

	for name, res := range override.Resources {
		current := base.Resources[name]
		current.Name = name
		if len(res.Read) > 0 {
			current.Read = res.Read
		}
		if res.Create != "" {
			current.Create = res.Create
		}
		if res.Delete != "" {
			current.Delete = res.Delete
		}
		if res.Get != "" {
			current.Get = res.Get
		}
		if len(current.Read) == 0 {
			return Endpoints{}, fmt.Errorf("resource %s has no read paths", name)
		}
		base.Resources[name] = current
	}

	if base.Login == "" {
		return Endpoints{}, errors.New("login path must not be empty")
	}

	return base, nil
}
