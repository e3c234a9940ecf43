// Package splash implements the timed loading gate shown before the first page.
package splash

import (
	"time"

	"snix.ai/snix-web/internal/timer"
)

// Config holds the gate timings and copy.
type Config struct {
	Step         int
	StepEvery    time.Duration
	Messages     []string
	MessageEvery time.Duration
	Duration     time.Duration
	ExitDelay    time.Duration
}

// DefaultConfig returns the site's splash timings.
func DefaultConfig() Config {
	return Config{
		Step:      2,
		StepEvery: 60 * time.Millisecond,
		Messages: []string{
			"Initializing AI Engine...",
			"Loading Creative Assets...",
			"Preparing Your Experience...",
			"Almost Ready...",
		},
		MessageEvery: 750 * time.Millisecond,
		Duration:     3 * time.Second,
		ExitDelay:    500 * time.Millisecond,
	}
}

// Total is the time from Start to the completion callback.
func (c Config) Total() time.Duration { return c.Duration + c.ExitDelay }

// State is the render snapshot of the gate.
type State struct {
	Progress     int    `json:"progress"`
	MessageIndex int    `json:"messageIndex"`
	Message      string `json:"message"`
	Visible      bool   `json:"visible"`
}

// Gate is the splash state machine. It is not safe for concurrent use.
type Gate struct {
	cfg       Config
	progress  int
	message   int
	visible   bool
	completed bool
	cancels   []func()
}

// New returns a visible gate at zero progress. Zero fields of cfg take the defaults.
func New(cfg Config) *Gate {
	def := DefaultConfig()
	if cfg.Step <= 0 {
		cfg.Step = def.Step
	}
	if cfg.StepEvery <= 0 {
		cfg.StepEvery = def.StepEvery
	}
	if len(cfg.Messages) == 0 {
		cfg.Messages = def.Messages
	}
	if cfg.MessageEvery <= 0 {
		cfg.MessageEvery = def.MessageEvery
	}
	if cfg.Duration <= 0 {
		cfg.Duration = def.Duration
	}
	if cfg.ExitDelay < 0 {
		cfg.ExitDelay = 0
	}
	return &Gate{cfg: cfg, visible: true}
}

func (g *Gate) Config() Config { return g.cfg }

// Completed reports whether the completion callback has run.
func (g *Gate) Completed() bool { return g.completed }

// State returns a snapshot for rendering.
func (g *Gate) State() State {
	return State{
		Progress:     g.progress,
		MessageIndex: g.message,
		Message:      g.cfg.Messages[g.message],
		Visible:      g.visible,
	}
}

// Start schedules the progress, message and completion timers on scope. onChange runs
// after every visible change; onComplete runs exactly once, ExitDelay after the gate hides.
// Closing the scope before then cancels everything, including onComplete.
func (g *Gate) Start(scope *timer.Scope, onChange func(State), onComplete func()) {
	emit := func() {
		if onChange != nil {
			onChange(g.State())
		}
	}
	progress := scope.Every(g.cfg.StepEvery, func() {
		if g.progress >= 100 {
			return
		}
		g.progress += g.cfg.Step
		if g.progress > 100 {
			g.progress = 100
		}
		emit()
	})
	messages := scope.Every(g.cfg.MessageEvery, func() {
		g.message = (g.message + 1) % len(g.cfg.Messages)
		emit()
	})
	g.cancels = append(g.cancels, progress, messages)
	// progress and messages keep running through the exit transition
	scope.After(g.cfg.Duration, func() {
		g.visible = false
		emit()
		scope.After(g.cfg.ExitDelay, func() {
			progress()
			messages()
			if g.completed {
				return
			}
			g.completed = true
			if onComplete != nil {
				onComplete()
			}
		})
	})
}

// Skip hides the gate immediately and completes it without waiting, used when a client
// reconnects after the gate already ran once in the tab.
func (g *Gate) Skip(onComplete func()) {
	for _, cancel := range g.cancels {
		cancel()
	}
	g.progress = 100
	g.visible = false
	if g.completed {
		return
	}
	g.completed = true
	if onComplete != nil {
		onComplete()
	}
}
