// Package carousel implements the auto-advancing rotator shared by the hero images,
// the studio outfit slides and the testimonial rotators.
package carousel

import (
	"errors"
	"fmt"
	"time"

	"snix.ai/snix-web/internal/timer"
)

// ErrOutOfRange is returned by Select for an index outside [0, Len).
var ErrOutOfRange = errors.New("carousel: index out of range")

// State is the render snapshot of a carousel.
type State struct {
	Name   string `json:"widget"`
	Index  int    `json:"index"`
	Length int    `json:"length"`
	Paused bool   `json:"paused"`
}

// Carousel holds the active index of a fixed list. It is not safe for concurrent use;
// every method runs on the owning session's loop.
type Carousel struct {
	name   string
	length int
	period time.Duration
	index  int
	paused bool
	stop   func()
}

// New returns a carousel over length items that advances every period once started.
func New(name string, length int, period time.Duration) *Carousel {
	if length < 0 {
		length = 0
	}
	return &Carousel{name: name, length: length, period: period}
}

func (c *Carousel) Name() string          { return c.name }
func (c *Carousel) Len() int              { return c.length }
func (c *Carousel) Period() time.Duration { return c.period }
func (c *Carousel) Index() int            { return c.index }
func (c *Carousel) Paused() bool          { return c.paused }

// State returns a snapshot for rendering.
func (c *Carousel) State() State {
	return State{Name: c.name, Index: c.index, Length: c.length, Paused: c.paused}
}

// Tick advances by one unless paused. It reports whether the index moved.
func (c *Carousel) Tick() bool {
	if c.paused || c.length == 0 {
		return false
	}
	c.index = (c.index + 1) % c.length
	return c.length > 1
}

// Select jumps to k. The tick schedule is left alone.
func (c *Carousel) Select(k int) error {
	if k < 0 || k >= c.length {
		return fmt.Errorf("%w: %s[%d] of %d", ErrOutOfRange, c.name, k, c.length)
	}
	c.index = k
	return nil
}

// Next moves forward one item, wrapping.
func (c *Carousel) Next() {
	c.index = c.At(1)
}

// Prev moves back one item, wrapping.
func (c *Carousel) Prev() {
	c.index = c.At(-1)
}

// At returns the index offset items away from the current one, wrapping in both directions.
// The hero uses it to pick its background images.
func (c *Carousel) At(offset int) int {
	if c.length == 0 {
		return 0
	}
	return ((c.index+offset)%c.length + c.length) % c.length
}

// SetPaused toggles hover pause. Ticks that fire while paused are skipped, not delayed.
func (c *Carousel) SetPaused(paused bool) {
	c.paused = paused
}

// Start schedules the fixed-period tick on scope. onChange runs after every tick that moves
// the index. Start is a no-op for a carousel with fewer than two items or no period.
func (c *Carousel) Start(scope *timer.Scope, onChange func(State)) {
	if scope == nil || c.length < 2 || c.period <= 0 {
		return
	}
	if c.stop != nil {
		c.stop()
	}
	c.stop = scope.Every(c.period, func() {
		if c.Tick() && onChange != nil {
			onChange(c.State())
		}
	})
}

// Stop cancels the tick started by Start. Closing the scope has the same effect.
func (c *Carousel) Stop() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}
