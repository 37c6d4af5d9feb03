package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/internal/validation"
)

// Form kinds accepted by Submit.
const (
	FormUser       = "users"
	FormSupplier   = "suppliers"
	FormItem       = "items"
	FormDepartment = "departments"
	FormOffice     = "offices"
	FormStockIn    = "stock-in"
	FormStockOut   = "stock-out"
	FormDeadstock  = "dead-stock"
)

// ErrServerUnreachable is wrapped by the error returned when the backend
// fails the connection check that precedes multi-line submissions.
var ErrServerUnreachable = errors.New("backend server unreachable")

// SubmitError is a submission failure with a message meant for the user.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }
func (e *SubmitError) Unwrap() error { return e.Err }

// SubmitResult reports a settled submission.
type SubmitResult struct {
	Form    string          `json:"form"`
	Status  FormStatus      `json:"status"`
	Created []normalize.Raw `json:"created,omitempty"`
}

// plan is a validated submission ready to be posted.
type plan struct {
	resource string
	payloads []map[string]any
}

// Submit validates the JSON form body of kind and, when it is valid, posts
// one record per payload. Validation failures return a
// *validation.ValidationError before any network call. On success the
// pages showing the resource are updated in place.
func (s *Service) Submit(ctx context.Context, ws *Workspace, kind string, body []byte) (*SubmitResult, error) {
	if _, ok := formResources[kind]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownForm, kind)
	}

	form := ws.Form(kind)
	if !form.Begin() {
		return nil, ErrBusy
	}

	p, err := s.prepare(ctx, ws, kind, body)
	if err != nil {
		s.failForm(form, err)
		return &SubmitResult{Form: kind, Status: form.Status()}, err
	}

	created, err := s.post(ctx, p)
	if err != nil {
		s.logger.Error("submission failed",
			zap.String("form", kind),
			zap.Int("records", len(p.payloads)),
			zap.Error(err),
		)
		// Some lines may have been stored before the failure.
		if len(p.payloads) > 1 {
			s.invalidateOwned(ws, p.resource)
		}
		s.failForm(form, err)
		return &SubmitResult{Form: kind, Status: form.Status()}, err
	}

	s.applyCreated(ws, p.resource, created)
	form.Succeed(successMessage(kind, len(created)))
	return &SubmitResult{Form: kind, Status: form.Status(), Created: created}, nil
}

var formResources = map[string]string{
	FormUser:       config.ResourceUsers,
	FormSupplier:   config.ResourceSuppliers,
	FormItem:       config.ResourceItems,
	FormDepartment: config.ResourceDepartments,
	FormOffice:     config.ResourceOffices,
	FormStockIn:    config.ResourceStockIns,
	FormStockOut:   config.ResourceStockOuts,
	FormDeadstock:  config.ResourceDeadstocks,
}

func (s *Service) failForm(form *Form, err error) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		form.Fail(verr.Fields, "")
		return
	}
	form.Fail(nil, err.Error())
}

func decodeForm(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return validation.Errors{"form": "Invalid form data"}.Err()
	}
	return nil
}

func (s *Service) prepare(ctx context.Context, ws *Workspace, kind string, body []byte) (*plan, error) {
	resource := formResources[kind]
	switch kind {
	case FormUser:
		var f models.UserForm
		if err := decodeForm(body, &f); err != nil {
			return nil, err
		}
		if err := s.validator.User(f).Err(); err != nil {
			return nil, err
		}
		return single(resource, userPayload(f)), nil

	case FormSupplier:
		var f models.SupplierForm
		if err := decodeForm(body, &f); err != nil {
			return nil, err
		}
		if err := s.validator.Supplier(f).Err(); err != nil {
			return nil, err
		}
		return single(resource, map[string]any{
			"name":          strings.TrimSpace(f.Name),
			"contactPerson": strings.TrimSpace(f.ContactPerson),
			"phone":         strings.TrimSpace(f.Phone),
			"email":         strings.TrimSpace(f.Email),
			"address":       strings.TrimSpace(f.Address),
		}), nil

	case FormItem:
		var f models.ItemForm
		if err := decodeForm(body, &f); err != nil {
			return nil, err
		}
		if err := s.validator.Item(f).Err(); err != nil {
			return nil, err
		}
		payload := map[string]any{
			"name":        strings.TrimSpace(f.Name),
			"description": strings.TrimSpace(f.Description),
			"category_id": f.Category,
			"unit":        f.Unit,
			"price":       0,
		}
		if f.Brand != "" {
			payload["brand"] = f.Brand
		}
		return single(resource, payload), nil

	case FormDepartment:
		var f models.DepartmentForm
		if err := decodeForm(body, &f); err != nil {
			return nil, err
		}
		if err := s.validator.Department(f).Err(); err != nil {
			return nil, err
		}
		return single(resource, map[string]any{
			"name":        strings.TrimSpace(f.Name),
			"code":        strings.TrimSpace(f.Code),
			"faculty":     f.Faculty,
			"description": strings.TrimSpace(f.Description),
		}), nil

	case FormOffice:
		var f models.OfficeForm
		if err := decodeForm(body, &f); err != nil {
			return nil, err
		}
		if err := s.validator.Office(f).Err(); err != nil {
			return nil, err
		}
		return single(resource, map[string]any{
			"name":        strings.TrimSpace(f.Name),
			"code":        strings.TrimSpace(f.Code),
			"section":     f.Section,
			"description": strings.TrimSpace(f.Description),
		}), nil

	case FormDeadstock:
		var f models.DeadstockForm
		if err := decodeForm(body, &f); err != nil {
			return nil, err
		}
		if err := s.validator.Deadstock(f, ws.Lookup()).Err(); err != nil {
			return nil, err
		}
		return single(resource, map[string]any{
			"user_id":     strings.TrimSpace(f.UserID),
			"item_id":     strings.TrimSpace(f.ItemID),
			"quantity":    f.Quantity,
			"reason":      f.Reason,
			"reported_at": f.ReportedAt,
		}), nil

	case FormStockIn:
		return s.prepareStockIn(ctx, ws, body)

	case FormStockOut:
		return s.prepareStockOut(ctx, ws, body)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownForm, kind)
}

func single(resource string, payload map[string]any) *plan {
	return &plan{resource: resource, payloads: []map[string]any{payload}}
}

// userPayload sends only the affiliation the role calls for.
func userPayload(f models.UserForm) map[string]any {
	payload := map[string]any{
		"name":         strings.TrimSpace(f.Name),
		"email":        strings.TrimSpace(f.Email),
		"password":     f.Password,
		"role":         f.Role,
		"phone_number": strings.TrimSpace(f.Phone),
	}
	switch models.Role(f.Role) {
	case models.RoleTeacher:
		payload["department_id"] = f.DepartmentID
	case models.RoleStaff:
		payload["office_id"] = f.OfficeID
	}
	return payload
}

func (s *Service) prepareStockIn(ctx context.Context, ws *Workspace, body []byte) (*plan, error) {
	var f models.StockInForm
	if err := decodeForm(body, &f); err != nil {
		return nil, err
	}
	lookup := ws.Lookup()
	if err := s.validator.StockIn(f, lookup).Err(); err != nil {
		return nil, err
	}
	if err := s.checkServer(ctx); err != nil {
		return nil, err
	}

	departmentID, officeID := lookup.User.Affiliation()
	p := &plan{resource: config.ResourceStockIns}
	for _, line := range f.Lines {
		payload := map[string]any{
			"user_id":       strings.TrimSpace(f.UserID),
			"item_id":       line.ItemID,
			"supplier_id":   f.SupplierID,
			"quantity":      line.Quantity,
			"unit_price":    line.UnitPrice,
			"total_price":   line.TotalPrice(),
			"purchase_date": f.InvoiceDate,
			"invoice_no":    strings.TrimSpace(f.InvoiceNumber),
			"remarks":       f.Remarks,
		}
		if departmentID != "" {
			payload["department_id"] = departmentID
		}
		if officeID != "" {
			payload["office_id"] = officeID
		}
		p.payloads = append(p.payloads, payload)
	}
	return p, nil
}

// prepareStockOut validates the form, then re-reads the stock-in collection
// and checks every line against that fresh read. The backend still owns the
// decrement; this only rejects requests that are already known to exceed
// stock.
func (s *Service) prepareStockOut(ctx context.Context, ws *Workspace, body []byte) (*plan, error) {
	var f models.StockOutForm
	if err := decodeForm(body, &f); err != nil {
		return nil, err
	}
	lookup := ws.Lookup()
	if err := s.validator.StockOut(f, lookup, nil).Err(); err != nil {
		return nil, err
	}
	if err := s.checkServer(ctx); err != nil {
		return nil, err
	}

	stockIns := s.client.Fetch(ctx, s.endpoints.MustResource(config.ResourceStockIns))
	if stockIns.Failed() {
		return nil, &SubmitError{
			Message: "Failed to load stock records. Please check your connection.",
			Err:     stockIns.Err(),
		}
	}
	records := normalize.All(stockIns.Records, normalize.StockIn)
	if err := s.validator.StockOut(f, lookup, availableStock(records)).Err(); err != nil {
		return nil, err
	}

	byID := make(map[string]models.StockInRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	departmentID, officeID := lookup.User.Affiliation()
	p := &plan{resource: config.ResourceStockOuts}
	for _, line := range f.Lines {
		payload := map[string]any{
			"user_id":    strings.TrimSpace(f.UserID),
			"item_id":    byID[line.StockInID].ItemID,
			"issue_type": issueTypeManual,
			"issue_by":   strings.TrimSpace(f.IssueBy),
			"issue_date": f.IssueDate,
			"quantity":   line.Quantity,
			"remarks":    f.Remarks,
		}
		if line.UsedLocation != "" {
			payload["used_location"] = line.UsedLocation
		}
		if departmentID != "" {
			payload["department_id"] = departmentID
		}
		if officeID != "" {
			payload["office_id"] = officeID
		}
		p.payloads = append(p.payloads, payload)
	}
	return p, nil
}

func (s *Service) checkServer(ctx context.Context) error {
	if err := s.client.Ping(ctx, s.endpoints.MustResource(config.ResourceStockIns)); err != nil {
		s.logger.Warn("backend connection check failed", zap.Error(err))
		return &SubmitError{
			Message: fmt.Sprintf("Cannot connect to server. Please check if the backend server is running on %s", s.backendURL),
			Err:     fmt.Errorf("%w: %v", ErrServerUnreachable, err),
		}
	}
	return nil
}

// post creates one record per payload concurrently. The first failure is
// returned; the other requests are allowed to finish.
func (s *Service) post(ctx context.Context, p *plan) ([]normalize.Raw, error) {
	res := s.endpoints.MustResource(p.resource)
	created := make([]normalize.Raw, len(p.payloads))

	var g errgroup.Group
	for i, payload := range p.payloads {
		g.Go(func() error {
			rec, err := s.client.Create(ctx, res, payload)
			if err != nil {
				return err
			}
			created[i] = echoed(rec, payload)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return created, nil
}

// echoed prefers the record returned by the backend, filling in submitted
// fields it left out.
func echoed(rec normalize.Raw, payload map[string]any) normalize.Raw {
	out := make(normalize.Raw, len(payload)+len(rec))
	for k, v := range payload {
		out[k] = v
	}
	for k, v := range rec {
		out[k] = v
	}
	delete(out, "password")
	return out
}

// applyCreated inserts records carrying an id into the owning pages and
// reloads everything else that depends on the resource.
func (s *Service) applyCreated(ws *Workspace, resource string, created []normalize.Raw) {
	for _, p := range pagesOwnedBy(resource) {
		for _, raw := range created {
			if normalize.Ref(raw, normalize.IDAliases...) == "" || !p.insert(ws, raw) {
				ws.invalidate(p.Name())
				break
			}
		}
	}
	for _, name := range dependents[resource] {
		ws.invalidate(name)
	}
}

func (s *Service) invalidateOwned(ws *Workspace, resource string) {
	for _, p := range pagesOwnedBy(resource) {
		ws.invalidate(p.Name())
	}
	for _, name := range dependents[resource] {
		ws.invalidate(name)
	}
}

// dependents lists pages that aggregate or facet over a resource they do
// not own.
var dependents = map[string][]string{
	config.ResourceStockIns:    {PageCurrentStock},
	config.ResourceStockOuts:   {PageCurrentStock},
	config.ResourceDeadstocks:  {PageCurrentStock},
	config.ResourceItems:       {PageCurrentStock},
	config.ResourceDepartments: {PageTeachers},
	config.ResourceOffices:     {PageStaff},
	config.ResourceUsers:       {PageStockIn, PageStockOut, PageDeadstock},
}

func successMessage(kind string, n int) string {
	switch kind {
	case FormStockIn:
		return fmt.Sprintf("%d stock-in entries created", n)
	case FormStockOut:
		return fmt.Sprintf("%d stock-out entries created", n)
	default:
		return "Created successfully"
	}
}

// Delete removes a record from the backend and drops it from every loaded
// page that shows the resource.
func (s *Service) Delete(ctx context.Context, ws *Workspace, resource, id string) error {
	res, ok := s.endpoints.Resource(resource)
	if !ok || res.Delete == "" {
		return fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	if err := s.client.Delete(ctx, res, id); err != nil {
		return err
	}

	owner := resource
	if resource == config.ResourceTeachers || resource == config.ResourceStaff {
		owner = config.ResourceUsers
	}
	for _, p := range pagesOwnedBy(owner) {
		p.remove(ws, id)
	}
	for _, name := range dependents[owner] {
		ws.invalidate(name)
	}
	return nil
}

// Options returns the fixed option lists of the form screens.
func (s *Service) Options() models.FormOptions {
	return models.DefaultFormOptions()
}
