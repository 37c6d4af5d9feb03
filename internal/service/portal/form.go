package portal

import (
	"sync"

	"github.com/mamadbah2/inventory-portal/internal/validation"
)

// FormState is the submission state of a form.
type FormState string

const (
	FormIdle       FormState = "idle"
	FormSubmitting FormState = "submitting"
	FormSuccess    FormState = "success"
	FormError      FormState = "error"
)

// FormStatus is a read of a Form.
type FormStatus struct {
	State   FormState         `json:"state"`
	Errors  validation.Errors `json:"errors,omitempty"`
	Message string            `json:"message,omitempty"`
}

// Form tracks idle -> submitting -> success|error -> idle for one form.
type Form struct {
	mu     sync.Mutex
	status FormStatus
}

// NewForm returns an idle form.
func NewForm() *Form {
	return &Form{status: FormStatus{State: FormIdle}}
}

// Begin starts a submission. A settled form passes back through idle first;
// a form that is already submitting is left alone and Begin reports false.
func (f *Form) Begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status.State == FormSubmitting {
		return false
	}
	f.status = FormStatus{State: FormSubmitting}
	return true
}

// Succeed settles the submission and clears any earlier errors.
func (f *Form) Succeed(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = FormStatus{State: FormSuccess, Message: msg}
}

// Fail settles the submission with field errors, a message, or both. The
// submitted values are kept by the caller for correction.
func (f *Form) Fail(errs validation.Errors, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = FormStatus{State: FormError, Errors: errs, Message: msg}
}

// Reset returns the form to idle.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = FormStatus{State: FormIdle}
}

// Status returns the current state.
func (f *Form) Status() FormStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}
