package models

// DeadstockReasons is the fixed list offered when reporting dead stock.
var DeadstockReasons = []string{
	"Damaged",
	"Expired",
	"Obsolete",
	"Lost",
	"Stolen",
	"Defective",
	"Worn Out",
	"Broken",
	"Contaminated",
	"Other",
}

// ItemCategories is the fixed category list of the item form.
var ItemCategories = []string{
	"Office Supplies",
	"Electronics",
	"Furniture",
	"Laboratory Equipment",
	"Computer Hardware",
}

// ItemUnits is the fixed unit-of-measure list of the item form.
var ItemUnits = []string{
	"Piece", "Set", "Box", "Pack", "Dozen",
	"Kilogram", "Liter", "Meter", "Square Meter", "Cubic Meter",
}

// Faculties groups departments.
var Faculties = []string{
	"Faculty of Agriculture",
	"Faculty of Engineering & Technology",
	"Faculty of Computer Science & Engineering",
	"Faculty of Business Administration",
	"Faculty of Fisheries",
	"Faculty of Veterinary & Animal Science",
	"Faculty of Disaster Management",
	"Faculty of Land Management & Law",
}

// Sections groups offices.
var Sections = []string{
	"Administration",
	"Academic Affairs",
	"Student Services",
	"Finance",
	"Human Resources",
	"IT Department",
	"Library",
	"Research",
	"International Relations",
	"Maintenance",
}

// FormOptions bundles the option lists served to form screens.
type FormOptions struct {
	DeadstockReasons []string `json:"deadstockReasons"`
	ItemCategories   []string `json:"itemCategories"`
	ItemUnits        []string `json:"itemUnits"`
	Faculties        []string `json:"faculties"`
	Sections         []string `json:"sections"`
	Roles            []Role   `json:"roles"`
}

// DefaultFormOptions returns the fixed option lists.
func DefaultFormOptions() FormOptions {
	return FormOptions{
		DeadstockReasons: DeadstockReasons,
		ItemCategories:   ItemCategories,
		ItemUnits:        ItemUnits,
		Faculties:        Faculties,
		Sections:         Sections,
		Roles:            []Role{RoleTeacher, RoleStaff, RoleAdmin},
	}
}
