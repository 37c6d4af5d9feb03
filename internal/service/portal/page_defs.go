package portal

import (
	"strings"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/internal/view"
)

// Page names.
const (
	PageStockIn      = "stock-in"
	PageStockOut     = "stock-out"
	PageDeadstock    = "dead-stock"
	PageTeachers     = "teachers"
	PageStaff        = "staff"
	PageItems        = "items"
	PageSuppliers    = "suppliers"
	PageDepartments  = "departments"
	PageOffices      = "offices"
	PageCurrentStock = "current-stock"
)

// Facet names, used as query parameters.
const (
	FacetSupplier   = "supplier"
	FacetIssueType  = "issueType"
	FacetRole       = "role"
	FacetReason     = "reason"
	FacetDepartment = "department"
	FacetOffice     = "office"
	FacetCategory   = "category"
	FacetFaculty    = "faculty"
	FacetSection    = "section"
)

const issueTypeManual = "manual"

var pages = map[string]Page{
	PageStockIn:      stockInPage(),
	PageStockOut:     stockOutPage(),
	PageDeadstock:    deadstockPage(),
	PageTeachers:     teachersPage(),
	PageStaff:        staffPage(),
	PageItems:        itemsPage(),
	PageSuppliers:    suppliersPage(),
	PageDepartments:  departmentsPage(),
	PageOffices:      officesPage(),
	PageCurrentStock: currentStockPage(),
}

func userName(u models.User) string       { return u.Name }
func userRole(u models.User) string       { return string(u.Role) }
func itemName(i models.Item) string       { return i.Name }
func deptName(d models.Department) string { return d.Name }
func officeName(o models.Office) string   { return o.Name }

func stockInPage() *pageSpec[models.StockInRow] {
	return &pageSpec[models.StockInRow]{
		name:    PageStockIn,
		title:   "Stock In",
		primary: config.ResourceStockIns,
		owner:   config.ResourceStockIns,
		needs: []string{
			config.ResourceStockIns, config.ResourceItems, config.ResourceSuppliers,
			config.ResourceUsers, config.ResourceDepartments, config.ResourceOffices,
		},
		builder: func(ds *Dataset) func(normalize.Raw) models.StockInRow {
			byUser := func(r models.StockInRecord) string { return r.UserID }
			rules := []view.Rule[models.StockInRecord, models.StockInRow]{
				{
					Resolve:  view.Ref(func(r models.StockInRecord) string { return r.ItemID }, ds.ItemIndex, itemName),
					Fallback: models.UnknownItem,
					Set:      func(row *models.StockInRow, v string) { row.ItemName = v },
				},
				{
					Resolve:  view.Ref(func(r models.StockInRecord) string { return r.SupplierID }, ds.SupplierIndex, func(s models.Supplier) string { return s.Name }),
					Fallback: models.UnknownSupplier,
					Set:      func(row *models.StockInRow, v string) { row.SupplierName = v },
				},
				{
					Resolve:  view.Ref(byUser, ds.UserIndex, userName),
					Fallback: models.UnknownUser,
					Set:      func(row *models.StockInRow, v string) { row.ReceiverName = v },
				},
				{
					Resolve: view.FirstOf(
						view.Ref(func(r models.StockInRecord) string { return r.DepartmentID }, ds.DepartmentIndex, deptName),
						view.Ref(byUser, ds.UserIndex, func(u models.User) string { return u.Office }),
						view.Ref(func(r models.StockInRecord) string { return r.OfficeID }, ds.OfficeIndex, officeName),
					),
					Fallback: models.NotAvailable,
					Set:      func(row *models.StockInRow, v string) { row.DepartmentName = v },
				},
			}
			return func(raw normalize.Raw) models.StockInRow {
				rec := normalize.StockIn(raw)
				row := models.StockInRow{StockInRecord: rec}
				view.Enrich(rec, &row, rules...)
				return row
			}
		},
		id: func(r models.StockInRow) string { return r.ID },
		filter: view.Filter[models.StockInRow]{
			Search: []func(models.StockInRow) string{
				func(r models.StockInRow) string { return r.InvoiceNo },
				func(r models.StockInRow) string { return r.SupplierName },
				func(r models.StockInRow) string { return r.ReceiverName },
				func(r models.StockInRow) string { return r.DepartmentName },
			},
			Facets: []view.Facet[models.StockInRow]{
				{Name: FacetSupplier, All: "All Suppliers", Value: func(r models.StockInRow) string { return r.SupplierName }},
			},
		},
		stats: func(rows []models.StockInRow) models.PageStats {
			st := models.PageStats{Records: len(rows)}
			for _, r := range rows {
				st.TotalQuantity += r.Quantity
				st.TotalValue += r.TotalPrice
			}
			return st
		},
		headers: []string{"Invoice No", "Purchase Date", "Item", "Supplier", "Receiver", "Department", "Quantity", "Unit Price", "Total Price"},
		cells: func(r models.StockInRow) []any {
			return []any{r.InvoiceNo, formatDate(r.PurchaseDate), r.ItemName, r.SupplierName, r.ReceiverName, r.DepartmentName, r.Quantity, r.UnitPrice, r.TotalPrice}
		},
	}
}

func stockOutPage() *pageSpec[models.StockOutRow] {
	return &pageSpec[models.StockOutRow]{
		name:    PageStockOut,
		title:   "Stock Out",
		primary: config.ResourceStockOuts,
		owner:   config.ResourceStockOuts,
		needs: []string{
			config.ResourceStockOuts, config.ResourceUsers, config.ResourceItems,
			config.ResourceDepartments, config.ResourceOffices,
		},
		builder: func(ds *Dataset) func(normalize.Raw) models.StockOutRow {
			byUser := func(r models.StockOutRecord) string { return r.UserID }
			rules := []view.Rule[models.StockOutRecord, models.StockOutRow]{
				{
					Resolve: view.FirstOf(
						view.Ref(byUser, ds.UserIndex, userName),
						view.Field(func(r models.StockOutRecord) string { return r.UserLabel }),
					),
					Fallback: models.UnknownUser,
					Set:      func(row *models.StockOutRow, v string) { row.UserName = v },
				},
				{
					Resolve:  view.Ref(func(r models.StockOutRecord) string { return r.ItemID }, ds.ItemIndex, itemName),
					Fallback: models.UnknownItem,
					Set:      func(row *models.StockOutRow, v string) { row.ItemName = v },
				},
				{
					Resolve:  view.Ref(func(r models.StockOutRecord) string { return r.DepartmentID }, ds.DepartmentIndex, deptName),
					Fallback: models.NotAvailable,
					Set:      func(row *models.StockOutRow, v string) { row.DepartmentName = v },
				},
				{
					Resolve:  view.Ref(func(r models.StockOutRecord) string { return r.OfficeID }, ds.OfficeIndex, officeName),
					Fallback: models.NotAvailable,
					Set:      func(row *models.StockOutRow, v string) { row.OfficeName = v },
				},
				{
					Resolve: view.FirstOf(
						view.Ref(byUser, ds.UserIndex, userRole),
						view.Field(func(r models.StockOutRecord) string { return r.RoleLabel }),
					),
					Fallback: models.UnknownRole,
					Set:      func(row *models.StockOutRow, v string) { row.UserRole = v },
				},
			}
			return func(raw normalize.Raw) models.StockOutRow {
				rec := normalize.StockOut(raw)
				row := models.StockOutRow{StockOutRecord: rec}
				view.Enrich(rec, &row, rules...)
				return row
			}
		},
		id: func(r models.StockOutRow) string { return r.ID },
		filter: view.Filter[models.StockOutRow]{
			Search: []func(models.StockOutRow) string{
				func(r models.StockOutRow) string { return r.UserName },
				func(r models.StockOutRow) string { return r.ItemName },
				func(r models.StockOutRow) string { return r.IssueBy },
				func(r models.StockOutRow) string { return r.DepartmentName },
				func(r models.StockOutRow) string { return r.OfficeName },
			},
			Facets: []view.Facet[models.StockOutRow]{
				{Name: FacetIssueType, All: "All Types", Value: func(r models.StockOutRow) string { return r.IssueType }},
				{Name: FacetRole, All: "All Roles", Value: func(r models.StockOutRow) string { return r.UserRole }},
			},
		},
		stats: func(rows []models.StockOutRow) models.PageStats {
			st := models.PageStats{Records: len(rows)}
			users := make(map[string]struct{})
			for _, r := range rows {
				st.TotalQuantity += r.Quantity
				if r.UserID != "" {
					users[r.UserID] = struct{}{}
				}
				if r.IssueType == issueTypeManual {
					st.ManualIssues++
				}
			}
			st.DistinctUsers = len(users)
			return st
		},
		headers: []string{"Issue Date", "User", "Role", "Item", "Quantity", "Issue Type", "Issued By", "Department", "Office"},
		cells: func(r models.StockOutRow) []any {
			return []any{formatDate(r.IssueDate), r.UserName, r.UserRole, r.ItemName, r.Quantity, r.IssueType, r.IssueBy, r.DepartmentName, r.OfficeName}
		},
	}
}

func deadstockPage() *pageSpec[models.DeadstockRow] {
	return &pageSpec[models.DeadstockRow]{
		name:    PageDeadstock,
		title:   "Dead Stock",
		primary: config.ResourceDeadstocks,
		owner:   config.ResourceDeadstocks,
		needs:   []string{config.ResourceDeadstocks, config.ResourceUsers, config.ResourceItems},
		builder: func(ds *Dataset) func(normalize.Raw) models.DeadstockRow {
			byUser := func(r models.DeadstockRecord) string { return r.UserID }
			byItem := func(r models.DeadstockRecord) string { return r.ItemID }
			rules := []view.Rule[models.DeadstockRecord, models.DeadstockRow]{
				{
					Resolve:  view.Ref(byUser, ds.UserIndex, userName),
					Fallback: models.UnknownUser,
					Set:      func(row *models.DeadstockRow, v string) { row.UserName = v },
				},
				{
					Resolve:  view.Ref(byItem, ds.ItemIndex, itemName),
					Fallback: models.UnknownItem,
					Set:      func(row *models.DeadstockRow, v string) { row.ItemName = v },
				},
				{
					Resolve:  view.Ref(byItem, ds.ItemIndex, func(i models.Item) string { return i.Category }),
					Fallback: models.NotAvailable,
					Set:      func(row *models.DeadstockRow, v string) { row.ItemCategory = v },
				},
				{
					Resolve:  view.Ref(byUser, ds.UserIndex, userRole),
					Fallback: models.UnknownRole,
					Set:      func(row *models.DeadstockRow, v string) { row.UserRole = v },
				},
			}
			return func(raw normalize.Raw) models.DeadstockRow {
				rec := normalize.Deadstock(raw)
				row := models.DeadstockRow{DeadstockRecord: rec}
				view.Enrich(rec, &row, rules...)
				return row
			}
		},
		id: func(r models.DeadstockRow) string { return r.ID },
		filter: view.Filter[models.DeadstockRow]{
			Search: []func(models.DeadstockRow) string{
				func(r models.DeadstockRow) string { return r.UserName },
				func(r models.DeadstockRow) string { return r.ItemName },
				func(r models.DeadstockRow) string { return r.Reason },
				func(r models.DeadstockRow) string { return r.ItemCategory },
			},
			Facets: []view.Facet[models.DeadstockRow]{
				{Name: FacetReason, All: "All Reasons", Value: func(r models.DeadstockRow) string { return r.Reason }},
				{Name: FacetRole, All: "All Roles", Value: func(r models.DeadstockRow) string { return r.UserRole }},
			},
		},
		stats: func(rows []models.DeadstockRow) models.PageStats {
			st := models.PageStats{Records: len(rows)}
			users := make(map[string]struct{})
			for _, r := range rows {
				st.TotalQuantity += r.Quantity
				if r.UserID != "" {
					users[r.UserID] = struct{}{}
				}
				if r.Reason == "Damaged" {
					st.Damaged++
				}
			}
			st.DistinctUsers = len(users)
			return st
		},
		headers: []string{"Reported", "Item", "Category", "Quantity", "Reason", "Reported By", "Role"},
		cells: func(r models.DeadstockRow) []any {
			return []any{formatDate(r.ReportedAt), r.ItemName, r.ItemCategory, r.Quantity, r.Reason, r.UserName, r.UserRole}
		},
	}
}

func teachersPage() *pageSpec[models.TeacherRow] {
	return &pageSpec[models.TeacherRow]{
		name:    PageTeachers,
		title:   "Teachers",
		primary: config.ResourceTeachers,
		owner:   config.ResourceUsers,
		accept:  roleIs(models.RoleTeacher),
		needs:   []string{config.ResourceTeachers, config.ResourceDepartments},
		builder: func(ds *Dataset) func(normalize.Raw) models.TeacherRow {
			byDept := func(u models.User) string { return u.DepartmentID }
			rules := []view.Rule[models.User, models.TeacherRow]{
				{
					Resolve:  view.Ref(byDept, ds.DepartmentIndex, deptName),
					Fallback: models.NotAvailable,
					Set:      func(row *models.TeacherRow, v string) { row.DepartmentName = v },
				},
				{
					Resolve:  view.Ref(byDept, ds.DepartmentIndex, func(d models.Department) string { return d.Faculty }),
					Fallback: models.NotAvailable,
					Set:      func(row *models.TeacherRow, v string) { row.FacultyName = v },
				},
			}
			return func(raw normalize.Raw) models.TeacherRow {
				u := normalize.User(raw)
				row := models.TeacherRow{User: u}
				view.Enrich(u, &row, rules...)
				return row
			}
		},
		id: func(r models.TeacherRow) string { return r.ID },
		filter: view.Filter[models.TeacherRow]{
			Search: []func(models.TeacherRow) string{
				func(r models.TeacherRow) string { return r.Name },
				func(r models.TeacherRow) string { return r.Email },
				func(r models.TeacherRow) string { return r.ID },
				func(r models.TeacherRow) string { return r.DepartmentName },
			},
			Facets: []view.Facet[models.TeacherRow]{
				{Name: FacetDepartment, All: "All Departments", Value: func(r models.TeacherRow) string { return r.DepartmentName }},
			},
		},
		options: func(ds *Dataset, _ []models.TeacherRow) map[string][]string {
			names := make([]string, 0, len(ds.Departments))
			for _, d := range ds.Departments {
				names = append(names, d.Name)
			}
			return map[string][]string{FacetDepartment: append([]string{"All Departments"}, names...)}
		},
		stats: func(rows []models.TeacherRow) models.PageStats {
			st := models.PageStats{Records: len(rows)}
			depts := make(map[string]struct{})
			for _, r := range rows {
				if strings.TrimSpace(r.Phone) != "" {
					st.WithPhone++
				}
				if r.DepartmentName != models.NotAvailable {
					depts[r.DepartmentName] = struct{}{}
				}
			}
			st.Affiliations = len(depts)
			return st
		},
		headers: []string{"ID", "Name", "Email", "Phone", "Department", "Faculty"},
		cells: func(r models.TeacherRow) []any {
			return []any{r.ID, r.Name, r.Email, r.Phone, r.DepartmentName, r.FacultyName}
		},
	}
}

func staffPage() *pageSpec[models.StaffRow] {
	return &pageSpec[models.StaffRow]{
		name:    PageStaff,
		title:   "Staff",
		primary: config.ResourceStaff,
		owner:   config.ResourceUsers,
		accept:  roleIs(models.RoleStaff),
		needs:   []string{config.ResourceStaff, config.ResourceOffices},
		builder: func(ds *Dataset) func(normalize.Raw) models.StaffRow {
			byOffice := func(u models.User) string { return u.OfficeID }
			rules := []view.Rule[models.User, models.StaffRow]{
				{
					Resolve:  view.Ref(byOffice, ds.OfficeIndex, officeName),
					Fallback: models.NotAvailable,
					Set:      func(row *models.StaffRow, v string) { row.OfficeName = v },
				},
				{
					Resolve:  view.Ref(byOffice, ds.OfficeIndex, func(o models.Office) string { return o.Section }),
					Fallback: models.NotAvailable,
					Set:      func(row *models.StaffRow, v string) { row.OfficeSection = v },
				},
			}
			return func(raw normalize.Raw) models.StaffRow {
				u := normalize.User(raw)
				row := models.StaffRow{User: u}
				view.Enrich(u, &row, rules...)
				return row
			}
		},
		id: func(r models.StaffRow) string { return r.ID },
		filter: view.Filter[models.StaffRow]{
			Search: []func(models.StaffRow) string{
				func(r models.StaffRow) string { return r.Name },
				func(r models.StaffRow) string { return r.Email },
				func(r models.StaffRow) string { return r.ID },
				func(r models.StaffRow) string { return r.OfficeName },
				func(r models.StaffRow) string { return r.OfficeSection },
			},
			Facets: []view.Facet[models.StaffRow]{
				{Name: FacetOffice, All: "All Offices", Value: func(r models.StaffRow) string { return r.OfficeName }},
			},
		},
		options: func(ds *Dataset, _ []models.StaffRow) map[string][]string {
			names := make([]string, 0, len(ds.Offices))
			for _, o := range ds.Offices {
				names = append(names, o.Name)
			}
			return map[string][]string{FacetOffice: append([]string{"All Offices"}, names...)}
		},
		stats: func(rows []models.StaffRow) models.PageStats {
			st := models.PageStats{Records: len(rows)}
			offices := make(map[string]struct{})
			for _, r := range rows {
				if strings.TrimSpace(r.Phone) != "" {
					st.WithPhone++
				}
				if r.OfficeName != models.NotAvailable {
					offices[r.OfficeName] = struct{}{}
				}
			}
			st.Affiliations = len(offices)
			return st
		},
		headers: []string{"ID", "Name", "Email", "Phone", "Office", "Section"},
		cells: func(r models.StaffRow) []any {
			return []any{r.ID, r.Name, r.Email, r.Phone, r.OfficeName, r.OfficeSection}
		},
	}
}

func itemsPage() *pageSpec[models.Item] {
	return &pageSpec[models.Item]{
		name:    PageItems,
		title:   "Items",
		primary: config.ResourceItems,
		owner:   config.ResourceItems,
		needs:   []string{config.ResourceItems},
		builder: func(*Dataset) func(normalize.Raw) models.Item { return normalize.Item },
		id:      func(i models.Item) string { return i.ID },
		filter: view.Filter[models.Item]{
			Search: []func(models.Item) string{
				func(i models.Item) string { return i.Name },
				func(i models.Item) string { return i.Description },
				func(i models.Item) string { return i.Category },
			},
			Facets: []view.Facet[models.Item]{
				{Name: FacetCategory, All: "All Categories", Value: func(i models.Item) string { return i.Category }},
			},
		},
		options: func(_ *Dataset, rows []models.Item) map[string][]string {
			return map[string][]string{
				FacetCategory: withFixed("All Categories", models.ItemCategories, rows, func(i models.Item) string { return i.Category }),
			}
		},
		headers: []string{"ID", "Name", "Description", "Category", "Unit", "Brand"},
		cells: func(i models.Item) []any {
			return []any{i.ID, i.Name, i.Description, i.Category, i.Unit, i.Brand}
		},
	}
}

func suppliersPage() *pageSpec[models.Supplier] {
	return &pageSpec[models.Supplier]{
		name:    PageSuppliers,
		title:   "Suppliers",
		primary: config.ResourceSuppliers,
		owner:   config.ResourceSuppliers,
		needs:   []string{config.ResourceSuppliers},
		builder: func(*Dataset) func(normalize.Raw) models.Supplier { return normalize.Supplier },
		id:      func(s models.Supplier) string { return s.ID },
		filter: view.Filter[models.Supplier]{
			Search: []func(models.Supplier) string{
				func(s models.Supplier) string { return s.Name },
				func(s models.Supplier) string { return s.ContactPerson },
				func(s models.Supplier) string { return s.Email },
			},
		},
		headers: []string{"ID", "Name", "Contact Person", "Phone", "Email", "Address"},
		cells: func(s models.Supplier) []any {
			return []any{s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address}
		},
	}
}

func departmentsPage() *pageSpec[models.Department] {
	return &pageSpec[models.Department]{
		name:    PageDepartments,
		title:   "Departments",
		primary: config.ResourceDepartments,
		owner:   config.ResourceDepartments,
		needs:   []string{config.ResourceDepartments},
		builder: func(*Dataset) func(normalize.Raw) models.Department { return normalize.Department },
		id:      func(d models.Department) string { return d.ID },
		filter: view.Filter[models.Department]{
			Search: []func(models.Department) string{
				func(d models.Department) string { return d.Name },
				func(d models.Department) string { return d.Code },
			},
			Facets: []view.Facet[models.Department]{
				{Name: FacetFaculty, All: "All Faculties", Value: func(d models.Department) string { return d.Faculty }},
			},
		},
		options: func(_ *Dataset, rows []models.Department) map[string][]string {
			return map[string][]string{
				FacetFaculty: withFixed("All Faculties", models.Faculties, rows, func(d models.Department) string { return d.Faculty }),
			}
		},
		headers: []string{"ID", "Name", "Code", "Faculty", "Description"},
		cells: func(d models.Department) []any {
			return []any{d.ID, d.Name, d.Code, d.Faculty, d.Description}
		},
	}
}

func officesPage() *pageSpec[models.Office] {
	return &pageSpec[models.Office]{
		name:    PageOffices,
		title:   "Offices",
		primary: config.ResourceOffices,
		owner:   config.ResourceOffices,
		needs:   []string{config.ResourceOffices},
		builder: func(*Dataset) func(normalize.Raw) models.Office { return normalize.Office },
		id:      func(o models.Office) string { return o.ID },
		filter: view.Filter[models.Office]{
			Search: []func(models.Office) string{
				func(o models.Office) string { return o.Name },
				func(o models.Office) string { return o.Code },
			},
			Facets: []view.Facet[models.Office]{
				{Name: FacetSection, All: "All Sections", Value: func(o models.Office) string { return o.Section }},
			},
		},
		options: func(_ *Dataset, rows []models.Office) map[string][]string {
			return map[string][]string{
				FacetSection: withFixed("All Sections", models.Sections, rows, func(o models.Office) string { return o.Section }),
			}
		},
		headers: []string{"ID", "Name", "Code", "Section", "Description"},
		cells: func(o models.Office) []any {
			return []any{o.ID, o.Name, o.Code, o.Section, o.Description}
		},
	}
}

func currentStockPage() *pageSpec[models.CurrentStockRow] {
	return &pageSpec[models.CurrentStockRow]{
		name:    PageCurrentStock,
		title:   "Current Stock",
		primary: config.ResourceItems,
		owner:   config.ResourceItems,
		needs: []string{
			config.ResourceItems, config.ResourceStockIns,
			config.ResourceStockOuts, config.ResourceDeadstocks,
		},
		rows: currentStock,
		id:   func(r models.CurrentStockRow) string { return r.ItemID },
		filter: view.Filter[models.CurrentStockRow]{
			Search: []func(models.CurrentStockRow) string{
				func(r models.CurrentStockRow) string { return r.ItemName },
				func(r models.CurrentStockRow) string { return r.Category },
			},
			Facets: []view.Facet[models.CurrentStockRow]{
				{Name: FacetCategory, All: "All Categories", Value: func(r models.CurrentStockRow) string { return r.Category }},
			},
		},
		stats: func(rows []models.CurrentStockRow) models.PageStats {
			st := models.PageStats{Records: len(rows)}
			for _, r := range rows {
				st.TotalQuantity += r.OnHand
			}
			return st
		},
		headers: []string{"Item", "Category", "Unit", "Received", "Issued", "Written Off", "On Hand"},
		cells: func(r models.CurrentStockRow) []any {
			return []any{r.ItemName, r.Category, r.Unit, r.Received, r.Issued, r.WrittenOff, r.OnHand}
		},
	}
}

// roleIs accepts created user records of role.
func roleIs(role models.Role) func(normalize.Raw) bool {
	return func(raw normalize.Raw) bool {
		return normalize.User(raw).Role == role
	}
}

// withFixed lists the sentinel, the fixed options, then any other values
// present in rows in first-seen order.
func withFixed[E any](all string, fixed []string, rows []E, value func(E) string) []string {
	out := append([]string{all}, fixed...)
	seen := make(map[string]struct{}, len(out))
	for _, v := range out {
		seen[v] = struct{}{}
	}
	for _, r := range rows {
		v := value(r)
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
