package models

// Fallback labels written by the enricher when a reference cannot be resolved.
const (
	UnknownUser     = "Unknown User"
	UnknownItem     = "Unknown Item"
	UnknownSupplier = "Unknown Supplier"
	UnknownRole     = "Unknown"
	NotAvailable    = "N/A"
)

// StockInRow is a stock-in record joined with its display fields.
type StockInRow struct {
	StockInRecord
	ItemName       string `json:"itemName"`
	SupplierName   string `json:"supplierName"`
	ReceiverName   string `json:"receiverName"`
	DepartmentName string `json:"departmentName"`
}

// StockOutRow is a stock-out record joined with its display fields.
type StockOutRow struct {
	StockOutRecord
	UserName       string `json:"userName"`
	ItemName       string `json:"itemName"`
	DepartmentName string `json:"departmentName"`
	OfficeName     string `json:"officeName"`
	UserRole       string `json:"userRole"`
}

// DeadstockRow is a dead-stock record joined with its display fields.
type DeadstockRow struct {
	DeadstockRecord
	UserName     string `json:"userName"`
	ItemName     string `json:"itemName"`
	ItemCategory string `json:"itemCategory"`
	UserRole     string `json:"userRole"`
}

// TeacherRow is a teacher joined with department data.
type TeacherRow struct {
	User
	DepartmentName string `json:"departmentName"`
	FacultyName    string `json:"facultyName"`
}

// StaffRow is a staff member joined with office data.
type StaffRow struct {
	User
	OfficeName    string `json:"officeName"`
	OfficeSection string `json:"officeSection"`
}

// CurrentStockRow is the per-item balance of the current stock report.
type CurrentStockRow struct {
	ItemID     string `json:"item_id"`
	ItemName   string `json:"itemName"`
	Category   string `json:"category"`
	Unit       string `json:"unit"`
	Received   int    `json:"received"`
	Issued     int    `json:"issued"`
	WrittenOff int    `json:"writtenOff"`
	OnHand     int    `json:"onHand"`
}

// PageStats carries the overview counters shown above a list.
type PageStats struct {
	Records       int     `json:"records"`
	TotalQuantity int     `json:"totalQuantity,omitempty"`
	TotalValue    float64 `json:"totalValue,omitempty"`
	DistinctUsers int     `json:"distinctUsers,omitempty"`
	ManualIssues  int     `json:"manualIssues,omitempty"`
	Damaged       int     `json:"damaged,omitempty"`
	WithPhone     int     `json:"withPhone,omitempty"`
	Affiliations  int     `json:"affiliations,omitempty"`
}
