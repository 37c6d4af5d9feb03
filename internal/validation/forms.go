package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
)

const (
	msgLookupFirst    = "Please lookup user information first"
	msgQuantity       = "Quantity must be greater than 0"
	msgTeacherNoDept  = "This teacher does not have a department_id assigned in their profile"
	msgStaffNoOffice  = "This staff member does not have an office_id assigned in their profile"
	msgInvalidRole    = "Invalid user role: %s. User must be either 'teacher' or 'staff'"
	msgOnlyAvailable  = "Only %d items available in stock"
	msgAtLeastOneLine = "At least one item is required"
)

var userMessages = Messages{
	"name":            {"": "Full name is required"},
	"email":           {"filled": "Email is required", "looseemail": "Email is invalid"},
	"password":        {"required": "Password is required", "min": "Password must be at least 6 characters"},
	"confirmPassword": {"required": "Confirm password is required", "eqfield": "Passwords do not match"},
	"role":            {"": "Role is required"},
	"departmentId":    {"": "Department is required for teachers"},
	"officeId":        {"": "Office is required for staff"},
	"phone":           {"filled": "Phone number is required", "bdphone": "Please enter a valid Bangladesh phone number"},
}

var supplierMessages = Messages{
	"name":          {"": "Supplier name is required"},
	"contactPerson": {"": "Contact person is required"},
	"phone":         {"filled": "Phone number is required", "bdphone": "Please enter a valid Bangladesh phone number"},
	"email":         {"filled": "Email is required", "looseemail": "Email is invalid"},
	"address":       {"": "Address is required"},
}

var itemMessages = Messages{
	"name":        {"": "Item name is required"},
	"description": {"": "Description is required"},
	"category":    {"": "Category is required"},
	"unit":        {"": "Unit is required"},
}

var departmentMessages = Messages{
	"name":        {"": "Department name is required"},
	"code":        {"": "Department code is required"},
	"faculty":     {"": "Faculty is required"},
	"description": {"": "Description is required"},
}

var officeMessages = Messages{
	"name":        {"": "Office name is required"},
	"section":     {"": "Section is required"},
	"description": {"": "Description is required"},
}

var stockInMessages = Messages{
	"supplierId":    {"": "Supplier is required"},
	"invoiceNumber": {"": "Invoice number is required"},
	"invoiceDate":   {"": "Invoice date is required"},
	"userId":        {"": "User ID is required"},
	"item":          {"": "Item is required"},
	"quantity":      {"": msgQuantity},
	"unitPrice":     {"": "Unit price must be greater than 0"},
}

var stockOutMessages = Messages{
	"userId":    {"": "User ID is required"},
	"issueDate": {"": "Issue date is required"},
	"issueBy":   {"": "Issue by is required"},
	"stockIn":   {"": "Stock item is required"},
	"quantity":  {"": msgQuantity},
}

var deadstockMessages = Messages{
	"userId":     {"": "User ID is required"},
	"itemId":     {"": "Item ID is required"},
	"quantity":   {"": msgQuantity},
	"reason":     {"": "Reason is required"},
	"reportedAt": {"": "Reported date is required"},
}

var loginMessages = Messages{
	"email":    {"": "Email is required"},
	"password": {"": "Password is required"},
}

// User validates the account creation form. The affiliation rules only
// apply to the role that requires them.
func (v *Validator) User(f models.UserForm) Errors {
	errs := Errors{}
	v.check(errs, f, userMessages, "")
	return errs
}

// Supplier validates the supplier creation form.
func (v *Validator) Supplier(f models.SupplierForm) Errors {
	errs := Errors{}
	v.check(errs, f, supplierMessages, "")
	return errs
}

// Item validates the item creation form.
func (v *Validator) Item(f models.ItemForm) Errors {
	errs := Errors{}
	v.check(errs, f, itemMessages, "")
	return errs
}

// Department validates the department creation form.
func (v *Validator) Department(f models.DepartmentForm) Errors {
	errs := Errors{}
	v.check(errs, f, departmentMessages, "")
	return errs
}

// Office validates the office creation form.
func (v *Validator) Office(f models.OfficeForm) Errors {
	errs := Errors{}
	v.check(errs, f, officeMessages, "")
	return errs
}

// Login validates portal credentials.
func (v *Validator) Login(f models.LoginRequest) Errors {
	errs := Errors{}
	v.check(errs, f, loginMessages, "")
	return errs
}

// StockIn validates the header, every line and the receiver lookup. The
// receiver must be a teacher with a department or staff with an office.
func (v *Validator) StockIn(f models.StockInForm, lookup models.UserLookup) Errors {
	errs := Errors{}
	v.check(errs, f, stockInMessages, "")
	v.lines(errs, len(f.Lines), func(i int) any { return f.Lines[i] }, stockInMessages)

	switch {
	case lookupMatches(lookup, f.UserID):
		u := lookup.User
		switch u.Role {
		case models.RoleTeacher:
			if u.DepartmentID == "" {
				errs.Set("userId", msgTeacherNoDept)
			}
		case models.RoleStaff:
			if u.OfficeID == "" {
				errs.Set("userId", msgStaffNoOffice)
			}
		default:
			errs.Set("userId", fmt.Sprintf(msgInvalidRole, u.Role))
		}
	case strings.TrimSpace(f.UserID) != "":
		errs.Set("userId", msgLookupFirst)
	}
	return errs
}

// StockOut validates the header, every line and the recipient lookup.
// available maps stock-in record ids to their current quantity; a nil map
// skips the availability check.
func (v *Validator) StockOut(f models.StockOutForm, lookup models.UserLookup, available map[string]int) Errors {
	errs := Errors{}
	v.check(errs, f, stockOutMessages, "")
	if strings.TrimSpace(f.UserID) != "" && !lookupMatches(lookup, f.UserID) {
		errs.Set("userId", msgLookupFirst)
	}

	v.lines(errs, len(f.Lines), func(i int) any { return f.Lines[i] }, stockOutMessages)
	if available == nil {
		return errs
	}
	for i, line := range f.Lines {
		if line.StockInID == "" {
			continue
		}
		if have := available[line.StockInID]; line.Quantity > have {
			errs.Set(lineKey("quantity", i), fmt.Sprintf(msgOnlyAvailable, have))
		}
	}
	return errs
}

// Deadstock validates a dead-stock report and its reporter lookup.
func (v *Validator) Deadstock(f models.DeadstockForm, lookup models.UserLookup) Errors {
	errs := Errors{}
	v.check(errs, f, deadstockMessages, "")
	if strings.TrimSpace(f.UserID) != "" && !lookupMatches(lookup, f.UserID) {
		errs.Set("userId", msgLookupFirst)
	}
	return errs
}

func (v *Validator) lines(errs Errors, n int, line func(int) any, msgs Messages) {
	if n == 0 {
		errs.Add("lines", msgAtLeastOneLine)
		return
	}
	for i := 0; i < n; i++ {
		v.check(errs, line(i), msgs, "_"+strconv.Itoa(i))
	}
}

func lineKey(field string, i int) string {
	return field + "_" + strconv.Itoa(i)
}

// lookupMatches reports whether lookup resolved the id currently in the form.
func lookupMatches(lookup models.UserLookup, userID string) bool {
	return lookup.Found() && lookup.UserID == strings.TrimSpace(userID)
}
