package timer

import (
	"context"
	"sync"
)

// Dispatch hands a callback to the goroutine that owns the widget state.
type Dispatch func(fn func())

// Inline runs fn immediately on the calling goroutine.
func Inline(fn func()) { fn() }

// Loop is a single-consumer event queue. Every callback dispatched to it runs on the
// goroutine executing Run (or RunPending), one at a time, in arrival order.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Dispatch enqueues fn. It never blocks; callbacks posted after Close are dropped.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes queued callbacks until ctx is done, then closes the loop.
func (l *Loop) Run(ctx context.Context) {
	defer l.Close()
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// RunPending executes the callbacks queued so far, plus any they enqueue, and returns
// how many ran. Tests use it to drain the loop without a background goroutine.
func (l *Loop) RunPending() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
		n++
	}
}

// Close drops pending callbacks and rejects new ones.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.queue = nil
}
