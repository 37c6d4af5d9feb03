package portal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/pkg/clients/inventory"
)

type created struct {
	resource string
	payload  map[string]any
}

// fakeClient serves canned collections and records every mutation.
type fakeClient struct {
	mu        sync.Mutex
	records   map[string][]normalize.Raw
	failing   map[string]bool
	users     map[string]normalize.Raw
	getErr    error
	pingErr   error
	createErr error
	noIDs     bool

	fetches map[string]int
	creates []created
	deletes []string
	pings   int
	nextID  int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		records: make(map[string][]normalize.Raw),
		failing: make(map[string]bool),
		users:   make(map[string]normalize.Raw),
		fetches: make(map[string]int),
	}
}

func (f *fakeClient) set(resource string, recs ...normalize.Raw) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[resource] = recs
}

func (f *fakeClient) fail(resource string, failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[resource] = failing
}

func (f *fakeClient) fetchCount(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[resource]
}

func (f *fakeClient) Fetch(_ context.Context, res config.Resource) inventory.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[res.Name]++

	col := inventory.Collection{Resource: res.Name, Probed: 1}
	if f.failing[res.Name] {
		col.Failures = []inventory.PathFailure{{Path: res.Read[0], Reason: inventory.ReasonTransport, Err: "connection refused"}}
		return col
	}
	col.Records = f.records[res.Name]
	if len(col.Records) > 0 {
		col.Source = res.Read[0]
	}
	return col
}

func (f *fakeClient) GetUser(_ context.Context, id string) (normalize.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	raw, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user %s: %w", id, inventory.ErrNotFound)
	}
	return raw, nil
}

func (f *fakeClient) Create(_ context.Context, res config.Resource, payload any) (normalize.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.New("unexpected payload type")
	}
	f.creates = append(f.creates, created{resource: res.Name, payload: body})
	if f.createErr != nil {
		return nil, f.createErr
	}

	out := normalize.Raw{}
	if !f.noIDs {
		f.nextID++
		out["_id"] = fmt.Sprintf("new-%d", f.nextID)
	}
	return out, nil
}

func (f *fakeClient) Delete(_ context.Context, res config.Resource, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, res.Name+"/"+id)
	kept := f.records[res.Name][:0:0]
	for _, raw := range f.records[res.Name] {
		if normalize.Ref(raw, normalize.IDAliases...) != id {
			kept = append(kept, raw)
		}
	}
	f.records[res.Name] = kept
	return nil
}

func (f *fakeClient) Login(context.Context, string, string) (normalize.Raw, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Ping(context.Context, config.Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeClient) createsFor(resource string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]any
	for _, c := range f.creates {
		if c.resource == resource {
			out = append(out, c.payload)
		}
	}
	return out
}
