package portal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/internal/validation"
	"github.com/mamadbah2/inventory-portal/internal/view"
)

const testBackend = "http://localhost:5000"

func newTestService(t *testing.T) (*Service, *fakeClient, *Workspace) {
	t.Helper()
	fc := newFakeClient()
	s := NewService(fc, config.DefaultEndpoints(), testBackend, nil)
	return s, fc, s.Workspaces().Get("token")
}

func viewPage(t *testing.T, s *Service, ws *Workspace, page string, q view.Query, refresh bool) *PageView {
	t.Helper()
	pv, err := s.View(context.Background(), ws, page, q, refresh)
	if err != nil {
		t.Fatalf("view %s: %v", page, err)
	}
	return pv
}

func TestView_DeadstockFallsBackForUnknownUser(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.set(config.ResourceDeadstocks, normalize.Raw{"_id": "d1", "user_id": "ghost", "item_id": "i1", "quantity": float64(2), "reason": "Damaged"})
	fc.set(config.ResourceUsers, normalize.Raw{"_id": "u1", "name": "Rahim", "role": "staff"})
	fc.set(config.ResourceItems, normalize.Raw{"_id": "i1", "name": "Stapler", "category": "Office Supplies"})

	pv := viewPage(t, s, ws, PageDeadstock, view.Query{}, false)
	rows := pv.Rows.([]models.DeadstockRow)
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.UserName != models.UnknownUser || row.UserRole != models.UnknownRole {
		t.Fatalf("want unknown user fallbacks, got %q/%q", row.UserName, row.UserRole)
	}
	if row.ItemName != "Stapler" || row.ItemCategory != "Office Supplies" {
		t.Fatalf("want resolved item, got %q/%q", row.ItemName, row.ItemCategory)
	}
	if pv.Stats.Damaged != 1 || pv.Stats.TotalQuantity != 2 {
		t.Fatalf("unexpected stats %+v", pv.Stats)
	}
}

func TestView_PrimaryFailureIsStickyUntilRefresh(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.fail(config.ResourceStockIns, true)

	pv := viewPage(t, s, ws, PageStockIn, view.Query{}, false)
	if pv.State != view.ListError || !pv.Retry {
		t.Fatalf("want retryable error state, got %s retry=%v", pv.State, pv.Retry)
	}
	if pv.Error != msgLoadFailed {
		t.Fatalf("want load failure message, got %q", pv.Error)
	}
	if rows := pv.Rows.([]models.StockInRow); len(rows) != 0 {
		t.Fatalf("want no rows on error, got %d", len(rows))
	}

	fc.fail(config.ResourceStockIns, false)
	fc.set(config.ResourceStockIns, normalize.Raw{"_id": "s1", "item_id": "i1", "quantity": float64(4)})

	if pv := viewPage(t, s, ws, PageStockIn, view.Query{}, false); pv.State != view.ListError {
		t.Fatalf("want error state kept without refresh, got %s", pv.State)
	}
	before := fc.fetchCount(config.ResourceStockIns)

	pv = viewPage(t, s, ws, PageStockIn, view.Query{}, true)
	if pv.State != view.ListLoaded || pv.Total != 1 {
		t.Fatalf("want loaded page after refresh, got %s total=%d", pv.State, pv.Total)
	}
	if fc.fetchCount(config.ResourceStockIns) != before+1 {
		t.Fatalf("want exactly one refetch")
	}
}

func TestView_SecondaryFailureIsPartial(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.set(config.ResourceStockIns, normalize.Raw{"_id": "s1", "item_id": "i1", "supplier_id": "sup1", "quantity": float64(4)})
	fc.fail(config.ResourceSuppliers, true)

	pv := viewPage(t, s, ws, PageStockIn, view.Query{}, false)
	if pv.State != view.ListLoaded {
		t.Fatalf("want loaded, got %s", pv.State)
	}
	if len(pv.Partial) != 1 || pv.Partial[0] != config.ResourceSuppliers {
		t.Fatalf("want suppliers reported partial, got %v", pv.Partial)
	}
	row := pv.Rows.([]models.StockInRow)[0]
	if row.SupplierName != models.UnknownSupplier || row.ItemName != models.UnknownItem {
		t.Fatalf("want fallbacks, got %q/%q", row.SupplierName, row.ItemName)
	}
}

func TestView_UnresolvedReferencesNeverShowRawIDs(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.set(config.ResourceStockIns, normalize.Raw{"_id": "s1", "item_id": "i1", "supplier": "665f00000000000000000001", "quantity": float64(1)})
	fc.set(config.ResourceSuppliers, normalize.Raw{"_id": "sup1", "name": "Acme"})
	fc.set(config.ResourceTeachers, normalize.Raw{"_id": "t1", "name": "Dr. Karim", "role": "teacher", "department": "665f00000000000000000009"})
	fc.set(config.ResourceStaff, normalize.Raw{"_id": "st1", "name": "Nasima", "role": "staff", "office": "665f00000000000000000007"})

	pv := viewPage(t, s, ws, PageStockIn, view.Query{}, false)
	if row := pv.Rows.([]models.StockInRow)[0]; row.SupplierName != models.UnknownSupplier {
		t.Fatalf("want %q, got %q", models.UnknownSupplier, row.SupplierName)
	}
	for _, opt := range pv.Facets[FacetSupplier] {
		if strings.HasPrefix(opt, "665f") {
			t.Fatalf("supplier id leaked into facet options %v", pv.Facets[FacetSupplier])
		}
	}

	pv = viewPage(t, s, ws, PageTeachers, view.Query{}, false)
	if row := pv.Rows.([]models.TeacherRow)[0]; row.DepartmentName != models.NotAvailable {
		t.Fatalf("want %q department, got %q", models.NotAvailable, row.DepartmentName)
	}

	pv = viewPage(t, s, ws, PageStaff, view.Query{}, false)
	if row := pv.Rows.([]models.StaffRow)[0]; row.OfficeName != models.NotAvailable {
		t.Fatalf("want %q office, got %q", models.NotAvailable, row.OfficeName)
	}
}

func TestView_SearchAndFacets(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.set(config.ResourceUsers,
		normalize.Raw{"_id": "t1", "name": "Dr. Karim", "role": "teacher", "department_id": "d1"},
		normalize.Raw{"_id": "s1", "name": "Nasima", "role": "staff", "office_id": "o1"},
	)
	fc.set(config.ResourceStockOuts,
		normalize.Raw{"_id": "o-1", "user_id": "t1", "item_id": "i1", "quantity": float64(1), "issue_type": "manual"},
		normalize.Raw{"_id": "o-2", "user_id": "s1", "item_id": "i1", "quantity": float64(2), "issue_type": "manual"},
		normalize.Raw{"_id": "o-3", "user_id": "nobody", "item_id": "i1", "quantity": float64(3), "issue_type": "request"},
	)

	pv := viewPage(t, s, ws, PageStockOut, view.Query{Selections: map[string]string{FacetRole: "teacher"}}, false)
	if pv.Matched != 1 || pv.Total != 3 {
		t.Fatalf("want 1 of 3 matched, got %d of %d", pv.Matched, pv.Total)
	}

	pv = viewPage(t, s, ws, PageStockOut, view.Query{Search: "NASIMA", Selections: map[string]string{FacetRole: "All Roles"}}, false)
	if pv.Matched != 1 {
		t.Fatalf("want case-insensitive search match, got %d", pv.Matched)
	}

	roles := pv.Facets[FacetRole]
	if len(roles) == 0 || roles[0] != "All Roles" {
		t.Fatalf("want sentinel first, got %v", roles)
	}
	if pv.Stats.DistinctUsers != 3 || pv.Stats.ManualIssues != 2 {
		t.Fatalf("unexpected stats %+v", pv.Stats)
	}
}

func TestView_FixedFacetOptions(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.set(config.ResourceItems, normalize.Raw{"_id": "i1", "name": "Beaker", "category": "Glassware"})

	pv := viewPage(t, s, ws, PageItems, view.Query{}, false)
	cats := pv.Facets[FacetCategory]
	want := len(models.ItemCategories) + 2
	if len(cats) != want || cats[len(cats)-1] != "Glassware" {
		t.Fatalf("want fixed categories plus extras, got %v", cats)
	}
}

func TestView_UnknownPage(t *testing.T) {
	s, _, ws := newTestService(t)
	if _, err := s.View(context.Background(), ws, "reports", view.Query{}, false); !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("want ErrUnknownPage, got %v", err)
	}
}

func TestExport_ErrorStateFails(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.fail(config.ResourceSuppliers, true)

	if _, err := s.Export(context.Background(), ws, PageSuppliers, view.Query{}); !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("want ErrLoadFailed, got %v", err)
	}
}

func TestExport_FilteredTable(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.set(config.ResourceSuppliers,
		normalize.Raw{"_id": "a", "name": "Acme Traders", "email": "acme@example.com"},
		normalize.Raw{"_id": "b", "name": "Bengal Office", "email": "bo@example.com"},
	)

	table, err := s.Export(context.Background(), ws, PageSuppliers, view.Query{Search: "acme"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "Acme Traders" {
		t.Fatalf("unexpected rows %v", table.Rows)
	}
	if len(table.Headers) != len(table.Rows[0]) {
		t.Fatalf("header and row widths differ")
	}
}

func TestCurrentStock_Balances(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.set(config.ResourceItems,
		normalize.Raw{"_id": "i1", "name": "Paper", "category": "Office Supplies"},
		normalize.Raw{"_id": "i2", "name": "Chair", "category": "Furniture"},
	)
	fc.set(config.ResourceStockIns,
		normalize.Raw{"_id": "s1", "item_id": "i1", "quantity": float64(10)},
		normalize.Raw{"_id": "s2", "item_id": "i3", "quantity": float64(4)},
	)
	fc.set(config.ResourceStockOuts, normalize.Raw{"_id": "o1", "item_id": "i1", "quantity": float64(3)})
	fc.set(config.ResourceDeadstocks, normalize.Raw{"_id": "d1", "item_id": "i1", "quantity": float64(1)})

	pv := viewPage(t, s, ws, PageCurrentStock, view.Query{}, false)
	rows := pv.Rows.([]models.CurrentStockRow)
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(rows))
	}
	byID := make(map[string]models.CurrentStockRow)
	for _, r := range rows {
		byID[r.ItemID] = r
	}
	if got := byID["i1"]; got.OnHand != 6 || got.Received != 10 || got.Issued != 3 || got.WrittenOff != 1 {
		t.Fatalf("unexpected balance for i1: %+v", got)
	}
	if byID["i2"].OnHand != 0 {
		t.Fatalf("want zero on hand for untouched item")
	}
	if got := byID["i3"]; got.ItemName != models.UnknownItem || got.OnHand != 4 {
		t.Fatalf("want unknown item kept, got %+v", got)
	}
	if pv.Stats.TotalQuantity != 10 {
		t.Fatalf("want total on hand 10, got %d", pv.Stats.TotalQuantity)
	}
}

func TestLookupUser(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.users["t1"] = normalize.Raw{"_id": "t1", "name": "Dr. Karim", "role": "teacher", "department_id": "d1"}
	ctx := context.Background()

	got, err := s.LookupUser(ctx, ws, " t1 ")
	if err != nil || !got.Found() || got.User.Name != "Dr. Karim" {
		t.Fatalf("want found lookup, got %+v err=%v", got, err)
	}
	if ws.Lookup().UserID != "t1" {
		t.Fatalf("want lookup stored in workspace")
	}

	got, err = s.LookupUser(ctx, ws, "missing")
	if err != nil || got.Status != models.LookupNotFound {
		t.Fatalf("want not_found, got %+v err=%v", got, err)
	}

	fc.getErr = errors.New("connection reset")
	got, err = s.LookupUser(ctx, ws, "t1")
	if err == nil || got.Status != models.LookupUnchecked {
		t.Fatalf("want unchecked with error, got %+v err=%v", got, err)
	}
}

func TestDashboard(t *testing.T) {
	s, fc, _ := newTestService(t)
	s.now = func() time.Time { return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC) }

	fc.set(config.ResourceItems, normalize.Raw{"_id": "i1", "name": "Paper"})
	fc.set(config.ResourceStockIns,
		normalize.Raw{"_id": "s1", "item_id": "i1", "quantity": float64(5), "received_at": "2025-03-02T10:00:00Z"},
		normalize.Raw{"_id": "s2", "item_id": "gone", "quantity": float64(1), "received_at": "2025-03-10T10:00:00Z"},
		normalize.Raw{"_id": "s3", "item_id": "i1", "quantity": float64(2), "received_at": "2025-02-27T10:00:00Z"},
		normalize.Raw{"_id": "s4", "item_id": "i1", "quantity": float64(2), "received_at": "2024-03-05T10:00:00Z"},
	)
	fc.set(config.ResourceStockOuts,
		normalize.Raw{"_id": "o1", "item_id": "i1", "quantity": float64(1), "issued_at": "2025-03-12T10:00:00Z"},
	)
	fc.fail(config.ResourceDepartments, true)

	d := s.Dashboard(context.Background())
	if d.Stats.StockInCount != 2 || d.Stats.StockOutCount != 1 || d.Stats.TotalItems != 1 {
		t.Fatalf("unexpected stats %+v", d.Stats)
	}
	if !d.Partial {
		t.Fatalf("want partial dashboard when a collection failed")
	}
	if len(d.RecentStockIn) != 3 {
		t.Fatalf("want 3 recent stock-ins, got %d", len(d.RecentStockIn))
	}
	if d.RecentStockIn[0].ID != "s2" || d.RecentStockIn[0].ItemName != "gone" {
		t.Fatalf("want newest first with raw id name, got %+v", d.RecentStockIn[0])
	}
	out := d.RecentStockOut[0]
	if out.ItemName != "Paper" || out.UserName != models.UnknownUser || out.UserRole != models.UnknownRole {
		t.Fatalf("unexpected recent stock-out %+v", out)
	}
}

func TestSubmit_InvalidSupplierMakesNoNetworkCall(t *testing.T) {
	s, fc, ws := newTestService(t)
	body := `{"name":"Acme","contactPerson":"Rafi","phone":"01712345678","email":"not-an-email","address":"Dhaka"}`

	res, err := s.Submit(context.Background(), ws, FormSupplier, []byte(body))
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}
	if verr.Fields["email"] != "Email is invalid" {
		t.Fatalf("unexpected field errors %v", verr.Fields)
	}
	if len(fc.creates) != 0 || fc.pings != 0 {
		t.Fatalf("want no backend calls, got %d creates %d pings", len(fc.creates), fc.pings)
	}
	if res.Status.State != FormError || res.Status.Errors["email"] == "" {
		t.Fatalf("want form error state with field errors, got %+v", res.Status)
	}
}

func TestSubmit_MalformedBody(t *testing.T) {
	s, _, ws := newTestService(t)
	_, err := s.Submit(context.Background(), ws, FormItem, []byte(`{"name":`))
	var verr *validation.ValidationError
	if !errors.As(err, &verr) || verr.Fields["form"] == "" {
		t.Fatalf("want form-level validation error, got %v", err)
	}
}

func TestSubmit_UnknownFormAndBusy(t *testing.T) {
	s, _, ws := newTestService(t)
	ctx := context.Background()

	if _, err := s.Submit(ctx, ws, "invoices", nil); !errors.Is(err, ErrUnknownForm) {
		t.Fatalf("want ErrUnknownForm, got %v", err)
	}

	ws.Form(FormDepartment).Begin()
	if _, err := s.Submit(ctx, ws, FormDepartment, []byte(`{}`)); !errors.Is(err, ErrBusy) {
		t.Fatalf("want ErrBusy, got %v", err)
	}
}

func TestSubmit_UserSendsSingleAffiliation(t *testing.T) {
	s, fc, ws := newTestService(t)
	body := `{"name":"Dr. Karim","email":"karim@uni.edu","password":"secret1","confirmPassword":"secret1",
		"role":"teacher","departmentId":"d1","officeId":"o9","phone":"01712345678"}`

	if _, err := s.Submit(context.Background(), ws, FormUser, []byte(body)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	payloads := fc.createsFor(config.ResourceUsers)
	if len(payloads) != 1 {
		t.Fatalf("want 1 create, got %d", len(payloads))
	}
	p := payloads[0]
	if p["department_id"] != "d1" || p["phone_number"] != "01712345678" {
		t.Fatalf("unexpected payload %v", p)
	}
	if _, ok := p["office_id"]; ok {
		t.Fatalf("teacher payload must not carry office_id: %v", p)
	}
	if _, ok := p["confirmPassword"]; ok {
		t.Fatalf("confirmation must not be sent")
	}
}

func lookupTeacher(t *testing.T, s *Service, fc *fakeClient, ws *Workspace) {
	t.Helper()
	fc.users["t1"] = normalize.Raw{"_id": "t1", "name": "Dr. Karim", "role": "teacher", "department_id": "d1"}
	if _, err := s.LookupUser(context.Background(), ws, "t1"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
}

const stockInBody = `{"supplierId":"sup1","invoiceNumber":"INV-7","invoiceDate":"2025-03-01","userId":"t1",
	"lines":[{"itemId":"i1","quantity":2,"unitPrice":10.5},{"itemId":"i2","quantity":3,"unitPrice":4}]}`

func TestSubmit_StockInPostsEveryLine(t *testing.T) {
	s, fc, ws := newTestService(t)
	ctx := context.Background()
	lookupTeacher(t, s, fc, ws)

	if pv := viewPage(t, s, ws, PageStockIn, view.Query{}, false); pv.Total != 0 {
		t.Fatalf("want empty page, got %d", pv.Total)
	}
	fetched := fc.fetchCount(config.ResourceStockIns)

	res, err := s.Submit(ctx, ws, FormStockIn, []byte(stockInBody))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Status.State != FormSuccess || len(res.Created) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	payloads := fc.createsFor(config.ResourceStockIns)
	if len(payloads) != 2 {
		t.Fatalf("want 2 creates, got %d", len(payloads))
	}
	for _, p := range payloads {
		if p["department_id"] != "d1" || p["invoice_no"] != "INV-7" || p["user_id"] != "t1" {
			t.Fatalf("unexpected payload %v", p)
		}
		if _, ok := p["office_id"]; ok {
			t.Fatalf("teacher line must not carry office_id: %v", p)
		}
		total := float64(p["quantity"].(int)) * p["unit_price"].(float64)
		if p["total_price"] != total {
			t.Fatalf("want total_price %v, got %v", total, p["total_price"])
		}
	}

	pv := viewPage(t, s, ws, PageStockIn, view.Query{}, false)
	if pv.Total != 2 {
		t.Fatalf("want created rows inserted, got %d", pv.Total)
	}
	if fc.fetchCount(config.ResourceStockIns) != fetched {
		t.Fatalf("want no reload after optimistic insert")
	}
}

func TestSubmit_StockInRequiresLookup(t *testing.T) {
	s, fc, ws := newTestService(t)

	_, err := s.Submit(context.Background(), ws, FormStockIn, []byte(stockInBody))
	var verr *validation.ValidationError
	if !errors.As(err, &verr) || verr.Fields["userId"] != "Please lookup user information first" {
		t.Fatalf("want lookup error, got %v", err)
	}
	if fc.pings != 0 {
		t.Fatalf("want no connection check before validation passes")
	}
}

func TestSubmit_ServerUnreachable(t *testing.T) {
	s, fc, ws := newTestService(t)
	lookupTeacher(t, s, fc, ws)
	fc.pingErr = errors.New("dial tcp: connection refused")

	res, err := s.Submit(context.Background(), ws, FormStockIn, []byte(stockInBody))
	if !errors.Is(err, ErrServerUnreachable) {
		t.Fatalf("want ErrServerUnreachable, got %v", err)
	}
	if !strings.Contains(err.Error(), testBackend) {
		t.Fatalf("want backend origin in message, got %q", err.Error())
	}
	if res.Status.State != FormError || res.Status.Message != err.Error() {
		t.Fatalf("unexpected status %+v", res.Status)
	}
	if len(fc.creates) != 0 {
		t.Fatalf("want no creates")
	}
}

func TestSubmit_StockOutChecksFreshStock(t *testing.T) {
	s, fc, ws := newTestService(t)
	ctx := context.Background()
	fc.users["s1"] = normalize.Raw{"_id": "s1", "name": "Nasima", "role": "staff", "office_id": "o1"}
	if _, err := s.LookupUser(ctx, ws, "s1"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	fc.set(config.ResourceStockIns, normalize.Raw{"_id": "batch1", "item_id": "i1", "quantity": float64(3)})

	over := `{"userId":"s1","issueDate":"2025-03-05","issueBy":"Store","lines":[{"stockInId":"batch1","quantity":5}]}`
	_, err := s.Submit(ctx, ws, FormStockOut, []byte(over))
	var verr *validation.ValidationError
	if !errors.As(err, &verr) || verr.Fields["quantity_0"] != "Only 3 items available in stock" {
		t.Fatalf("want availability error, got %v", err)
	}
	if len(fc.creates) != 0 {
		t.Fatalf("want no creates on oversell")
	}

	ok := `{"userId":"s1","issueDate":"2025-03-05","issueBy":"Store","lines":[{"stockInId":"batch1","quantity":2}]}`
	if _, err := s.Submit(ctx, ws, FormStockOut, []byte(ok)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	p := fc.createsFor(config.ResourceStockOuts)[0]
	if p["item_id"] != "i1" || p["issue_type"] != "manual" || p["office_id"] != "o1" {
		t.Fatalf("unexpected payload %v", p)
	}
	if _, has := p["department_id"]; has {
		t.Fatalf("staff line must not carry department_id")
	}
}

func TestSubmit_StockOutStockReloadFailure(t *testing.T) {
	s, fc, ws := newTestService(t)
	ctx := context.Background()
	fc.users["s1"] = normalize.Raw{"_id": "s1", "name": "Nasima", "role": "staff", "office_id": "o1"}
	if _, err := s.LookupUser(ctx, ws, "s1"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	fc.fail(config.ResourceStockIns, true)

	body := `{"userId":"s1","issueDate":"2025-03-05","issueBy":"Store","lines":[{"stockInId":"batch1","quantity":1}]}`
	_, err := s.Submit(ctx, ws, FormStockOut, []byte(body))
	var serr *SubmitError
	if !errors.As(err, &serr) || serr.Message != "Failed to load stock records. Please check your connection." {
		t.Fatalf("want stock reload error, got %v", err)
	}
}

func TestSubmit_CreateErrorSettlesForm(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.createErr = errors.New("Department code already exists")

	body := `{"name":"Physics","code":"PHY","faculty":"Faculty of Agriculture","description":"Dept"}`
	res, err := s.Submit(context.Background(), ws, FormDepartment, []byte(body))
	if err == nil {
		t.Fatalf("want error")
	}
	if res.Status.State != FormError || res.Status.Message != "Department code already exists" {
		t.Fatalf("unexpected status %+v", res.Status)
	}
	if _, err := s.Submit(context.Background(), ws, FormDepartment, []byte(body)); errors.Is(err, ErrBusy) {
		t.Fatalf("want settled form to accept a new submission")
	}
	if n := len(fc.createsFor(config.ResourceDepartments)); n != 2 {
		t.Fatalf("want 2 attempts, got %d", n)
	}
}

func TestSubmit_CreatedWithoutIDReloads(t *testing.T) {
	s, fc, ws := newTestService(t)
	fc.noIDs = true
	viewPage(t, s, ws, PageSuppliers, view.Query{}, false)
	before := fc.fetchCount(config.ResourceSuppliers)

	body := `{"name":"Acme","contactPerson":"Rafi","phone":"01712345678","email":"acme@example.com","address":"Dhaka"}`
	if _, err := s.Submit(context.Background(), ws, FormSupplier, []byte(body)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	viewPage(t, s, ws, PageSuppliers, view.Query{}, false)
	if fc.fetchCount(config.ResourceSuppliers) != before+1 {
		t.Fatalf("want page reloaded when the backend echoes no id")
	}
}

func TestDelete_RemovesFromLoadedPages(t *testing.T) {
	s, fc, ws := newTestService(t)
	ctx := context.Background()
	fc.set(config.ResourceDeadstocks,
		normalize.Raw{"_id": "d1", "item_id": "i1", "quantity": float64(1)},
		normalize.Raw{"_id": "d2", "item_id": "i1", "quantity": float64(2)},
	)
	fc.set(config.ResourceTeachers, normalize.Raw{"_id": "t1", "name": "Dr. Karim", "role": "teacher"})

	viewPage(t, s, ws, PageDeadstock, view.Query{}, false)
	viewPage(t, s, ws, PageTeachers, view.Query{}, false)

	fetched := fc.fetchCount(config.ResourceDeadstocks)
	if err := s.Delete(ctx, ws, config.ResourceDeadstocks, "d1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if pv := viewPage(t, s, ws, PageDeadstock, view.Query{}, false); pv.Total != 1 {
		t.Fatalf("want 1 dead-stock row left, got %d", pv.Total)
	}
	if fc.fetchCount(config.ResourceDeadstocks) != fetched {
		t.Fatalf("want dead-stock row removed in place without a refetch")
	}

	if err := s.Delete(ctx, ws, config.ResourceTeachers, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if pv := viewPage(t, s, ws, PageDeadstock, view.Query{}, false); pv.Total != 1 {
		t.Fatalf("want 1 dead-stock row after reload, got %d", pv.Total)
	}
	if fc.fetchCount(config.ResourceDeadstocks) != fetched+1 {
		t.Fatalf("want user delete to invalidate the dead-stock page")
	}
	if pv := viewPage(t, s, ws, PageTeachers, view.Query{}, false); pv.Total != 0 {
		t.Fatalf("want teacher removed, got %d", pv.Total)
	}
	if len(fc.deletes) != 2 {
		t.Fatalf("want 2 deletes, got %v", fc.deletes)
	}

	if err := s.Delete(ctx, ws, config.ResourceSuppliers, "x"); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("want ErrUnknownResource for resource without delete, got %v", err)
	}
}
