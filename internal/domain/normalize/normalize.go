// Package normalize adapts the backend's inconsistent JSON field naming into
// the typed domain records. Every record is normalized once, when it is
// ingested; the rest of the portal only sees the typed models.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Raw is one JSON object as decoded from the backend.
type Raw map[string]any

// Alias lists, probed left to right. The first alias holding a non-empty
// value wins.
var (
	IDAliases            = []string{"_id", "id"}
	ItemRefAliases       = []string{"product_id", "item_id", "itemId", "productId", "item"}
	UserRefAliases       = []string{"user_id", "userId", "user"}
	SupplierRefAliases   = []string{"supplier_id", "supplierId", "supplier"}
	DepartmentRefAliases = []string{"department_id", "departmentId"}
	OfficeRefAliases     = []string{"office_id", "officeId"}
	RoleAliases          = []string{"role", "roll"}
	QuantityAliases      = []string{"quantity", "qty"}
	StockInDateAliases   = []string{"received_at", "date", "created_at", "createdAt"}
	StockOutDateAliases  = []string{"issued_at", "date", "created_at", "createdAt"}
	StockOutUserAliases  = []string{"user_name", "userName", "requestedBy", "issuedTo"}
	StockOutRoleAliases  = []string{"user_role", "userRole", "role"}
	SupplierLabelAliases = []string{"vendor", "from"}
	CategoryAliases      = []string{"category", "category_id", "categoryName"}
	PhoneAliases         = []string{"phone", "phone_number"}
	ContactAliases       = []string{"contactPerson", "contact_person"}
	CreatedAliases       = []string{"createdAt", "created_at"}
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Ref returns the first non-empty reference among aliases. Populated
// references (embedded objects) resolve to their own id.
func Ref(raw Raw, aliases ...string) string {
	for _, alias := range aliases {
		if s := scalar(raw[alias], IDAliases); s != "" {
			return s
		}
	}
	return ""
}

// String returns the first non-empty textual value among aliases. Embedded
// objects resolve to their name.
func String(raw Raw, aliases ...string) string {
	for _, alias := range aliases {
		if s := scalar(raw[alias], []string{"name"}); s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first non-zero integer among aliases.
func Int(raw Raw, aliases ...string) int {
	for _, alias := range aliases {
		if f, ok := number(raw[alias]); ok && f != 0 {
			return int(math.Round(f))
		}
	}
	return 0
}

// Float returns the first non-zero number among aliases.
func Float(raw Raw, aliases ...string) float64 {
	for _, alias := range aliases {
		if f, ok := number(raw[alias]); ok && f != 0 {
			return f
		}
	}
	return 0
}

// Time returns the first parseable timestamp among aliases.
func Time(raw Raw, aliases ...string) time.Time {
	for _, alias := range aliases {
		s, ok := raw[alias].(string)
		if !ok || s == "" {
			continue
		}
		if t, ok := ParseTime(s); ok {
			return t
		}
	}
	return time.Time{}
}

// ParseTime accepts the timestamp layouts the backend emits.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func scalar(v any, nested []string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		if val == 0 {
			return ""
		}
		return strconv.Itoa(val)
	case map[string]any:
		for _, key := range nested {
			if s := scalar(val[key], nil); s != "" {
				return s
			}
		}
		return ""
	case Raw:
		return scalar(map[string]any(val), nested)
	default:
		return ""
	}
}

func number(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
