package models

// The form types below carry validation tags understood by the validation
// package. The `errkey` tag overrides the key an error is reported under.

// UserForm creates a teacher, staff or admin account.
type UserForm struct {
	Name            string `json:"name" validate:"filled"`
	Email           string `json:"email" validate:"filled,looseemail"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required"`
	DepartmentID    string `json:"departmentId" validate:"required_if=Role teacher"`
	OfficeID        string `json:"officeId" validate:"required_if=Role staff"`
	Phone           string `json:"phone" validate:"filled,bdphone"`
}

// SupplierForm creates a supplier.
type SupplierForm struct {
	Name          string `json:"name" validate:"filled"`
	ContactPerson string `json:"contactPerson" validate:"filled"`
	Phone         string `json:"phone" validate:"filled,bdphone"`
	Email         string `json:"email" validate:"filled,looseemail"`
	Address       string `json:"address" validate:"filled"`
}

// ItemForm creates an item.
type ItemForm struct {
	Name        string `json:"name" validate:"filled"`
	Description string `json:"description" validate:"filled"`
	Category    string `json:"category" validate:"filled"`
	Unit        string `json:"unit" validate:"filled"`
	Brand       string `json:"brand"`
}

// DepartmentForm creates a department.
type DepartmentForm struct {
	Name        string `json:"name" validate:"filled"`
	Code        string `json:"code" validate:"filled"`
	Faculty     string `json:"faculty" validate:"filled"`
	Description string `json:"description" validate:"filled"`
}

// OfficeForm creates an office.
type OfficeForm struct {
	Name        string `json:"name" validate:"filled"`
	Code        string `json:"code"`
	Section     string `json:"section" validate:"filled"`
	Description string `json:"description" validate:"filled"`
}

// StockInForm records one invoice worth of received stock.
type StockInForm struct {
	SupplierID    string        `json:"supplierId" validate:"filled"`
	InvoiceNumber string        `json:"invoiceNumber" validate:"filled"`
	InvoiceDate   string        `json:"invoiceDate" validate:"filled"`
	UserID        string        `json:"userId" validate:"filled"`
	Remarks       string        `json:"remarks"`
	Lines         []StockInLine `json:"lines" validate:"-"`
}

// StockInLine is one received item of a StockInForm.
type StockInLine struct {
	ItemID    string  `json:"itemId" errkey:"item" validate:"filled"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gt=0"`
}

// TotalPrice is quantity times unit price.
func (l StockInLine) TotalPrice() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// StockOutForm issues stock from one or more stock-in batches to a user.
type StockOutForm struct {
	UserID    string         `json:"userId" validate:"filled"`
	IssueDate string         `json:"issueDate" validate:"filled"`
	IssueBy   string         `json:"issueBy" validate:"filled"`
	Remarks   string         `json:"remarks"`
	Lines     []StockOutLine `json:"lines" validate:"-"`
}

// StockOutLine draws from one stock-in batch.
type StockOutLine struct {
	StockInID    string `json:"stockInId" errkey:"stockIn" validate:"filled"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	UsedLocation string `json:"usedLocation"`
}

// DeadstockForm reports unusable stock.
type DeadstockForm struct {
	UserID     string `json:"userId" validate:"filled"`
	ItemID     string `json:"itemId" validate:"filled"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	Reason     string `json:"reason" validate:"filled"`
	ReportedAt string `json:"reportedAt" validate:"filled"`
}

// LoginRequest carries portal credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"filled"`
	Password string `json:"password" validate:"required"`
}

// LookupStatus is the outcome of an asynchronous user lookup.
type LookupStatus string

const (
	LookupUnchecked LookupStatus = "unchecked"
	LookupFound     LookupStatus = "found"
	LookupNotFound  LookupStatus = "not_found"
)

// UserLookup is the resolved result of looking a user up by id.
type UserLookup struct {
	UserID string       `json:"userId"`
	Status LookupStatus `json:"status"`
	User   *User        `json:"user,omitempty"`
}

// Found reports whether the lookup resolved to a user.
func (l UserLookup) Found() bool {
	return l.Status == LookupFound && l.User != nil
}
