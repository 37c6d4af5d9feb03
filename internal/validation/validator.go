// Package validation evaluates portal forms at submit time and returns a
// field-keyed error map. An empty map means the form may be submitted.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^(\+88)?01[3-9]\d{8}$`)
)

// Errors maps a field key to its user-visible message.
type Errors map[string]string

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Set records msg for field, replacing any earlier error.
func (e Errors) Set(field, msg string) {
	e[field] = msg
}

// OK reports whether no field failed.
func (e Errors) OK() bool {
	return len(e) == 0
}

// ValidationError carries a non-empty Errors map through error returns.
type ValidationError struct {
	Fields Errors `json:"errors"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Err returns nil for an empty map and a *ValidationError otherwise.
func (e Errors) Err() error {
	if e.OK() {
		return nil
	}
	return &ValidationError{Fields: e}
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPhone reports whether s is a Bangladesh mobile number. Whitespace is
// ignored.
func IsPhone(s string) bool {
	return phonePattern.MatchString(strings.Join(strings.Fields(s), ""))
}

// Validator runs the struct tags of the form types.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the portal's custom tags registered:
// filled (non-blank), looseemail and bdphone.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(fieldKey)
	mustRegister(v, "filled", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "looseemail", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	mustRegister(v, "bdphone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// fieldKey reports a field under its errkey tag, or its JSON name.
func fieldKey(f reflect.StructField) string {
	if key := f.Tag.Get("errkey"); key != "" {
		return key
	}
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// Messages maps a field key to per-tag messages. The empty tag is the
// fallback for any tag without its own entry.
type Messages map[string]map[string]string

func (m Messages) lookup(field, tag string) string {
	byTag := m[field]
	if msg, ok := byTag[tag]; ok {
		return msg
	}
	if msg, ok := byTag[""]; ok {
		return msg
	}
	return field + " is invalid"
}

// check validates form into errs, keying each failure with suffix appended.
func (v *Validator) check(errs Errors, form any, msgs Messages, suffix string) {
	err := v.validate.Struct(form)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("form", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field()+suffix, msgs.lookup(fe.Field(), fe.Tag()))
	}
}
