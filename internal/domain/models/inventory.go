package models

import "time"

// Role enumerates the user roles known to the backend.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Item is an inventory article.
type Item struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Unit        string    `json:"unit"`
	Brand       string    `json:"brand,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// User is a portal account. Exactly one of DepartmentID (teacher) or
// OfficeID (staff) is meaningful.
type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Phone        string `json:"phone,omitempty"`
	EmployeeID   string `json:"employee_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	OfficeID     string `json:"office_id,omitempty"`
	// Department and Office carry free-text labels some endpoints return
	// alongside (or instead of) the references.
	Department string `json:"department,omitempty"`
	Office     string `json:"office,omitempty"`
}

// Affiliation returns the single affiliation reference the role selects.
func (u User) Affiliation() (departmentID, officeID string) {
	switch u.Role {
	case RoleTeacher:
		return u.DepartmentID, ""
	case RoleStaff:
		return "", u.OfficeID
	default:
		return "", ""
	}
}

// Department groups teachers under a faculty.
type Department struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Faculty     string `json:"faculty,omitempty"`
	Description string `json:"description,omitempty"`
}

// Office groups staff under a section.
type Office struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Section     string `json:"section,omitempty"`
	Description string `json:"description,omitempty"`
}

// Supplier provides stock.
type Supplier struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// StockInRecord is one received line item.
type StockInRecord struct {
	ID            string    `json:"_id"`
	ItemID        string    `json:"item_id"`
	SupplierID    string    `json:"supplier_id"`
	UserID        string    `json:"user_id"`
	DepartmentID  string    `json:"department_id,omitempty"`
	OfficeID      string    `json:"office_id,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	TotalPrice    float64   `json:"total_price"`
	InvoiceNo     string    `json:"invoice_no"`
	PurchaseDate  time.Time `json:"purchase_date,omitempty"`
	ReceivedAt    time.Time `json:"received_at,omitempty"`
	Remarks       string    `json:"remarks,omitempty"`
	SupplierLabel string    `json:"supplier_label,omitempty"`
}

// StockOutRecord is one issued line item.
type StockOutRecord struct {
	ID           string    `json:"_id"`
	UserID       string    `json:"user_id"`
	ItemID       string    `json:"item_id"`
	DepartmentID string    `json:"department_id,omitempty"`
	OfficeID     string    `json:"office_id,omitempty"`
	Quantity     int       `json:"quantity"`
	IssueType    string    `json:"issue_type"`
	IssueBy      string    `json:"issue_by"`
	IssueDate    time.Time `json:"issue_date,omitempty"`
	IssuedAt     time.Time `json:"issued_at,omitempty"`
	Remarks      string    `json:"remarks,omitempty"`
	UserLabel    string    `json:"user_label,omitempty"`
	RoleLabel    string    `json:"role_label,omitempty"`
}

// DeadstockRecord reports unusable stock.
type DeadstockRecord struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"user_id"`
	ItemID     string    `json:"item_id"`
	Quantity   int       `json:"quantity"`
	Reason     string    `json:"reason"`
	ReportedAt time.Time `json:"reported_at,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
