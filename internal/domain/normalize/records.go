package normalize

import (
	"strings"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
)

// All normalizes every raw record with fn.
func All[T any](raws []Raw, fn func(Raw) T) []T {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		out = append(out, fn(raw))
	}
	return out
}

// Item normalizes an item record.
func Item(raw Raw) models.Item {
	return models.Item{
		ID:          Ref(raw, IDAliases...),
		Name:        String(raw, "name"),
		Description: String(raw, "description"),
		Category:    String(raw, CategoryAliases...),
		Unit:        String(raw, "unit"),
		Brand:       String(raw, "brand"),
		CreatedAt:   Time(raw, CreatedAliases...),
	}
}

// User normalizes a user record.
func User(raw Raw) models.User {
	return models.User{
		ID:           Ref(raw, IDAliases...),
		Name:         String(raw, "name"),
		Email:        String(raw, "email"),
		Role:         models.Role(strings.ToLower(String(raw, RoleAliases...))),
		Phone:        String(raw, PhoneAliases...),
		EmployeeID:   String(raw, "employee_id"),
		DepartmentID: Ref(raw, DepartmentRefAliases...),
		OfficeID:     Ref(raw, OfficeRefAliases...),
		Department:   label(raw, "department", DepartmentRefAliases),
		Office:       label(raw, "office", OfficeRefAliases),
	}
}

// Department normalizes a department record.
func Department(raw Raw) models.Department {
	return models.Department{
		ID:          Ref(raw, IDAliases...),
		Name:        String(raw, "name"),
		Code:        String(raw, "code"),
		Faculty:     String(raw, "faculty"),
		Description: String(raw, "description"),
	}
}

// Office normalizes an office record.
func Office(raw Raw) models.Office {
	return models.Office{
		ID:          Ref(raw, IDAliases...),
		Name:        String(raw, "name"),
		Code:        String(raw, "code"),
		Section:     String(raw, "section"),
		Description: String(raw, "description"),
	}
}

// Supplier normalizes a supplier record.
func Supplier(raw Raw) models.Supplier {
	return models.Supplier{
		ID:            Ref(raw, IDAliases...),
		Name:          String(raw, "name"),
		ContactPerson: String(raw, ContactAliases...),
		Phone:         String(raw, PhoneAliases...),
		Email:         String(raw, "email"),
		Address:       String(raw, "address"),
		CreatedAt:     Time(raw, CreatedAliases...),
	}
}

// StockIn normalizes a stock-in record.
func StockIn(raw Raw) models.StockInRecord {
	rec := models.StockInRecord{
		ID:           Ref(raw, IDAliases...),
		ItemID:       Ref(raw, ItemRefAliases...),
		SupplierID:   Ref(raw, SupplierRefAliases...),
		UserID:       Ref(raw, UserRefAliases...),
		DepartmentID: Ref(raw, DepartmentRefAliases...),
		OfficeID:     Ref(raw, OfficeRefAliases...),
		Quantity:     Int(raw, QuantityAliases...),
		UnitPrice:    Float(raw, "unit_price", "unitPrice"),
		TotalPrice:   Float(raw, "total_price", "totalPrice"),
		InvoiceNo:    String(raw, "invoice_no", "invoiceNo", "invoice_number"),
		PurchaseDate: Time(raw, "purchase_date", "purchaseDate"),
		ReceivedAt:   Time(raw, StockInDateAliases...),
		Remarks:      String(raw, "remarks"),
	}
	if rec.TotalPrice == 0 {
		rec.TotalPrice = float64(rec.Quantity) * rec.UnitPrice
	}
	// A bare supplier reference is an id, never a label.
	if m, ok := raw["supplier"].(map[string]any); ok {
		rec.SupplierLabel = scalar(m["name"], nil)
	}
	if rec.SupplierLabel == "" {
		rec.SupplierLabel = String(raw, SupplierLabelAliases...)
	}
	// The placeholder the backend stores for the unused affiliation.
	if rec.DepartmentID == models.NotAvailable {
		rec.DepartmentID = ""
	}
	if rec.OfficeID == models.NotAvailable {
		rec.OfficeID = ""
	}
	return rec
}

// StockOut normalizes a stock-out record.
func StockOut(raw Raw) models.StockOutRecord {
	return models.StockOutRecord{
		ID:           Ref(raw, IDAliases...),
		UserID:       Ref(raw, UserRefAliases...),
		ItemID:       Ref(raw, ItemRefAliases...),
		DepartmentID: Ref(raw, DepartmentRefAliases...),
		OfficeID:     Ref(raw, OfficeRefAliases...),
		Quantity:     Int(raw, QuantityAliases...),
		IssueType:    String(raw, "issue_type", "issueType"),
		IssueBy:      String(raw, "issue_by", "issueBy"),
		IssueDate:    Time(raw, "issue_date", "issueDate"),
		IssuedAt:     Time(raw, StockOutDateAliases...),
		Remarks:      String(raw, "remarks"),
		UserLabel:    String(raw, StockOutUserAliases...),
		RoleLabel:    String(raw, StockOutRoleAliases...),
	}
}

// Deadstock normalizes a dead-stock record.
func Deadstock(raw Raw) models.DeadstockRecord {
	return models.DeadstockRecord{
		ID:         Ref(raw, IDAliases...),
		UserID:     Ref(raw, UserRefAliases...),
		ItemID:     Ref(raw, ItemRefAliases...),
		Quantity:   Int(raw, QuantityAliases...),
		Reason:     String(raw, "reason"),
		ReportedAt: Time(raw, "reported_at", "reportedAt"),
		CreatedAt:  Time(raw, "created_at", "createdAt"),
	}
}

// label reads a free-text affiliation label, falling back to the name of a
// populated reference.
func label(raw Raw, key string, refAliases []string) string {
	if s := String(raw, key); s != "" {
		return s
	}
	for _, alias := range refAliases {
		if m, ok := raw[alias].(map[string]any); ok {
			if s := scalar(m["name"], nil); s != "" {
				return s
			}
		}
	}
	return ""
}
