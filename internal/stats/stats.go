// Package stats animates the headline counters from zero to their targets.
package stats

import (
	"math"
	"time"

	"snix.ai/snix-web/internal/timer"
)

const (
	DefaultSteps    = 60
	DefaultDuration = 5 * time.Second
)

// Target is one named counter and the value it settles on.
type Target struct {
	Key   string `yaml:"key" json:"key"`
	Value int    `yaml:"value" json:"value"`
}

// Defaults are the site's counters.
var Defaults = []Target{
	{Key: "projects", Value: 200},
	{Key: "clients", Value: 50},
	{Key: "successRate", Value: 98},
	{Key: "support", Value: 24},
}

// Value returns the eased counter value at step of steps:
// floor(target * (1 - (1 - step/steps)^4)). The final step is exactly target.
func Value(target, step, steps int) int {
	if steps <= 0 || step >= steps {
		return target
	}
	if step <= 0 {
		return 0
	}
	progress := float64(step) / float64(steps)
	eased := 1 - math.Pow(1-progress, 4)
	return int(math.Floor(float64(target) * eased))
}

// Frame is the state of every counter after a step.
type Frame struct {
	Step   int            `json:"step"`
	Steps  int            `json:"steps"`
	Values map[string]int `json:"values"`
	Done   bool           `json:"done"`
}

// Animator counts a set of targets up over a fixed duration. It is not safe for
// concurrent use; it runs on the owning session's loop.
type Animator struct {
	targets   []Target
	steps     int
	duration  time.Duration
	step      int
	triggered bool
	stop      func()
}

// NewAnimator returns an animator over targets. Zero steps or duration fall back to the defaults.
func NewAnimator(targets []Target, steps int, duration time.Duration) *Animator {
	if steps <= 0 {
		steps = DefaultSteps
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Animator{targets: append([]Target(nil), targets...), steps: steps, duration: duration}
}

// Triggered reports whether the animation has been started.
func (a *Animator) Triggered() bool { return a.triggered }

// Done reports whether the final step has been applied.
func (a *Animator) Done() bool { return a.step >= a.steps }

// Step applies the next step and returns the resulting frame. Steps past the end
// keep returning the final frame.
func (a *Animator) Step() Frame {
	if a.step < a.steps {
		a.step++
	}
	return a.Snapshot()
}

// Snapshot returns the current frame without advancing.
func (a *Animator) Snapshot() Frame {
	values := make(map[string]int, len(a.targets))
	for _, t := range a.targets {
		values[t.Key] = Value(t.Value, a.step, a.steps)
	}
	return Frame{Step: a.step, Steps: a.steps, Values: values, Done: a.Done()}
}

// Trigger starts the animation on scope, calling onFrame after every step. Only the
// first call has an effect; later visibility changes do not restart the count.
func (a *Animator) Trigger(scope *timer.Scope, onFrame func(Frame)) bool {
	if a.triggered || scope == nil {
		return false
	}
	a.triggered = true
	period := a.duration / time.Duration(a.steps)
	a.stop = scope.Every(period, func() {
		f := a.Step()
		if onFrame != nil {
			onFrame(f)
		}
		if f.Done && a.stop != nil {
			a.stop()
		}
	})
	return true
}
