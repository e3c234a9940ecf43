package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Scope owns the timers of one widget for the lifetime of a mount. Closing the scope
// cancels every timer it started; a callback already in flight when Close runs is
// dropped before it touches widget state.
type Scope struct {
	clock    Clock
	dispatch Dispatch

	mu      sync.Mutex
	handles map[uint64]*handle
	next    uint64
	closed  atomic.Bool
}

type handle struct {
	id        uint64
	stopper   Stopper
	cancelled atomic.Bool
}

// NewScope creates a scope that schedules on clock and delivers callbacks through dispatch.
// A nil dispatch runs callbacks inline on the clock's goroutine.
func NewScope(clock Clock, dispatch Dispatch) *Scope {
	if clock == nil {
		clock = Real()
	}
	if dispatch == nil {
		dispatch = Inline
	}
	return &Scope{clock: clock, dispatch: dispatch, handles: map[uint64]*handle{}}
}

// Clock returns the clock the scope schedules on.
func (s *Scope) Clock() Clock { return s.clock }

// Active reports whether the scope has not been closed.
func (s *Scope) Active() bool { return !s.closed.Load() }

// Every runs fn at a fixed rate. Ticks are anchored to the start time so slow callbacks do
// not accumulate drift. The returned func cancels the timer and is safe to call repeatedly.
func (s *Scope) Every(period time.Duration, fn func()) (cancel func()) {
	if period <= 0 || fn == nil {
		return func() {}
	}
	h := s.register()
	if h == nil {
		return func() {}
	}
	start := s.clock.Now()
	var n int64 = 1
	var tick func()
	tick = func() {
		if !s.live(h) {
			return
		}
		s.dispatch(func() {
			if s.live(h) {
				fn()
			}
		})
		n++
		delay := start.Add(time.Duration(n) * period).Sub(s.clock.Now())
		if delay < 0 {
			delay = 0
		}
		s.arm(h, delay, tick)
	}
	s.arm(h, period, tick)
	return func() { s.cancel(h) }
}

// After runs fn once after d.
func (s *Scope) After(d time.Duration, fn func()) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	h := s.register()
	if h == nil {
		return func() {}
	}
	s.arm(h, d, func() {
		if !s.live(h) {
			return
		}
		s.forget(h)
		s.dispatch(func() {
			if !s.closed.Load() && !h.cancelled.Load() {
				fn()
			}
		})
	})
	return func() { s.cancel(h) }
}

// Post delivers fn through the scope's dispatch unless the scope is closed by the time it runs.
// It is how goroutines started by a widget report back to the widget.
func (s *Scope) Post(fn func()) {
	if fn == nil || s.closed.Load() {
		return
	}
	s.dispatch(func() {
		if !s.closed.Load() {
			fn()
		}
	})
}

// Close cancels every timer owned by the scope. It is idempotent.
func (s *Scope) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.mu.Lock()
	handles := s.handles
	s.handles = map[uint64]*handle{}
	s.mu.Unlock()
	for _, h := range handles {
		h.cancelled.Store(true)
		if h.stopper != nil {
			h.stopper.Stop()
		}
	}
}

// Pending returns the number of timers currently owned by the scope.
func (s *Scope) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

func (s *Scope) register() *handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil
	}
	s.next++
	h := &handle{id: s.next}
	s.handles[h.id] = h
	return h
}

func (s *Scope) arm(h *handle, d time.Duration, f func()) {
	stopper := s.clock.AfterFunc(d, f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.cancelled.Load() {
		stopper.Stop()
		return
	}
	h.stopper = stopper
}

func (s *Scope) live(h *handle) bool {
	return !s.closed.Load() && !h.cancelled.Load()
}

func (s *Scope) cancel(h *handle) {
	if h.cancelled.Swap(true) {
		return
	}
	s.mu.Lock()
	stopper := h.stopper
	delete(s.handles, h.id)
	s.mu.Unlock()
	if stopper != nil {
		stopper.Stop()
	}
}

func (s *Scope) forget(h *handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handles, h.id)
}
