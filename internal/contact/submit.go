package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"snix.ai/snix-web/internal/timer"
)

var (
	// ErrInvalid is returned when the values fail validation.
	ErrInvalid = errors.New("contact: invalid submission")
	// ErrBusy is returned when a submission is already in flight or being shown.
	ErrBusy = errors.New("contact: submission in progress")
	// ErrUnsupportedSubmitter is returned for an unknown submitter kind.
	ErrUnsupportedSubmitter = errors.New("contact: unsupported submitter")
)

// Submission is a validated message on its way out of the site.
type Submission struct {
	ID          string    `json:"id"`
	Values      Values    `json:"values"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Receipt confirms that a collaborator accepted a submission.
type Receipt struct {
	ID  string `json:"id"`
	Via string `json:"via"`
	// Ref is the collaborator's own reference, e.g. a Mailgun message id.
	Ref string `json:"ref,omitempty"`
}

// Submitter delivers a submission. Implementations must honour ctx.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (Receipt, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) (Receipt, error)

func (f SubmitterFunc) Submit(ctx context.Context, s Submission) (Receipt, error) { return f(ctx, s) }

// Prepare validates v and wraps it into a Submission stamped at now. Values are
// forwarded as typed, trimmed only; escaping belongs to whoever renders them.
func Prepare(v Values, now time.Time) (Submission, Errors, error) {
	clean := v.Trimmed()
	if errs := Validate(clean); errs != nil {
		return Submission{}, errs, ErrInvalid
	}
	return Submission{
		ID:          ulid.Make().String(),
		Values:      clean,
		SubmittedAt: now.UTC(),
	}, nil, nil
}

// Send validates v and hands it to sub. It is the synchronous path used by the
// plain HTTP form post; Form uses the same steps asynchronously.
func Send(ctx context.Context, sub Submitter, v Values, now time.Time) (Receipt, Errors, error) {
	s, errs, err := Prepare(v, now)
	if err != nil {
		return Receipt{}, errs, err
	}
	if sub == nil {
		return Receipt{}, nil, fmt.Errorf("%w: none configured", ErrUnsupportedSubmitter)
	}
	r, err := sub.Submit(ctx, s)
	if err != nil {
		return Receipt{}, nil, err
	}
	if r.ID == "" {
		r.ID = s.ID
	}
	return r, nil, nil
}

// Simulated accepts every submission after a fixed delay. It stands in for a real
// collaborator when none is configured.
type Simulated struct {
	Clock timer.Clock
	Delay time.Duration
}

// DefaultSimulatedDelay is the pause before a simulated submission succeeds.
const DefaultSimulatedDelay = 1500 * time.Millisecond

// NewSimulated returns a Simulated submitter on the real clock.
func NewSimulated(delay time.Duration) *Simulated {
	if delay < 0 {
		delay = DefaultSimulatedDelay
	}
	return &Simulated{Clock: timer.Real(), Delay: delay}
}

func (s *Simulated) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	clock := s.Clock
	if clock == nil {
		clock = timer.Real()
	}
	done := make(chan struct{})
	t := clock.AfterFunc(s.Delay, func() { close(done) })
	select {
	case <-done:
		return Receipt{ID: sub.ID, Via: "simulated"}, nil
	case <-ctx.Done():
		t.Stop()
		return Receipt{}, ctx.Err()
	}
}
