package contact

import (
	"context"
	"fmt"
	"time"

	"snix.ai/snix-web/internal/timer"
)

// Status is the phase of the form.
type Status string

const (
	Editing    Status = "editing"
	Submitting Status = "submitting"
	Submitted  Status = "submitted"
)

// DefaultDisplay is how long the success state stays on screen.
const DefaultDisplay = 4 * time.Second

// FailureMessage is the banner shown when the collaborator rejects a submission.
const FailureMessage = "We couldn't send your message. Please try again in a moment."

// Snapshot is the render state of the form.
type Snapshot struct {
	Status  Status            `json:"status"`
	Values  Values            `json:"values"`
	Errors  map[string]string `json:"errors,omitempty"`
	Failure string            `json:"failure,omitempty"`
	Receipt string            `json:"receipt,omitempty"`
}

// Busy reports whether the submit control is disabled.
func (s Snapshot) Busy() bool { return s.Status == Submitting }

// Form is the contact form state machine. All methods run on the owning loop; the
// submission itself runs on its own goroutine and reports back through the scope.
type Form struct {
	scope     *timer.Scope
	submitter Submitter
	display   time.Duration

	status   Status
	values   Values
	errors   Errors
	failure  string
	receipt  string
	onChange func(Snapshot)
}

// NewForm returns an empty form in Editing. Timers and completions go through scope.
func NewForm(scope *timer.Scope, submitter Submitter, display time.Duration) *Form {
	if display <= 0 {
		display = DefaultDisplay
	}
	return &Form{scope: scope, submitter: submitter, display: display, status: Editing}
}

// OnChange sets the callback run after every state change.
func (f *Form) OnChange(fn func(Snapshot)) { f.onChange = fn }

func (f *Form) Status() Status { return f.status }

// Snapshot returns the render state.
func (f *Form) Snapshot() Snapshot {
	s := Snapshot{Status: f.status, Values: f.values, Failure: f.failure, Receipt: f.receipt}
	if len(f.errors) > 0 {
		s.Errors = f.errors.Strings()
	}
	return s
}

// Set updates one field and clears its error. Fields are locked while a submission
// is in flight or its success is showing.
func (f *Form) Set(field Field, value string) error {
	if f.status != Editing {
		return ErrBusy
	}
	f.values = f.values.With(field, value)
	if f.errors.Has(field) {
		delete(f.errors, field)
	}
	f.emit()
	return nil
}

// Submit validates the form and, when valid, starts the submission. Invalid values
// leave the form in Editing with per-field errors and return ErrInvalid.
func (f *Form) Submit(ctx context.Context) error {
	if f.status != Editing {
		return ErrBusy
	}
	sub, errs, err := Prepare(f.values, f.scope.Clock().Now())
	if err != nil {
		f.errors = errs
		f.emit()
		return fmt.Errorf("%w: %d field(s)", err, len(errs))
	}
	if f.submitter == nil {
		return fmt.Errorf("%w: none configured", ErrUnsupportedSubmitter)
	}
	f.status = Submitting
	f.errors = nil
	f.failure = ""
	f.emit()

	submitter := f.submitter
	go func() {
		receipt, err := submitter.Submit(ctx, sub)
		f.scope.Post(func() { f.finish(sub, receipt, err) })
	}()
	return nil
}

func (f *Form) finish(sub Submission, receipt Receipt, err error) {
	if f.status != Submitting {
		return
	}
	if err != nil {
		// values are kept so the visitor can retry
		f.status = Editing
		f.failure = FailureMessage
		f.emit()
		return
	}
	f.status = Submitted
	f.receipt = receipt.ID
	if f.receipt == "" {
		f.receipt = sub.ID
	}
	f.emit()
	f.scope.After(f.display, f.reset)
}

func (f *Form) reset() {
	f.status = Editing
	f.values = Values{}
	f.errors = nil
	f.failure = ""
	f.receipt = ""
	f.emit()
}

func (f *Form) emit() {
	if f.onChange != nil {
		f.onChange(f.Snapshot())
	}
}
