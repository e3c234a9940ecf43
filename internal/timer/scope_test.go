package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestEveryFiresAtFixedRate(t *testing.T) {
	clock := NewFakeClock(epoch)
	scope := NewScope(clock, Inline)

	var ticks []time.Time
	scope.Every(100*time.Millisecond, func() { ticks = append(ticks, clock.Now()) })

	clock.Advance(350 * time.Millisecond)
	require.Len(t, ticks, 3)
	for i, at := range ticks {
		require.Equal(t, epoch.Add(time.Duration(i+1)*100*time.Millisecond), at)
	}
}

func TestAfterFiresOnce(t *testing.T) {
	clock := NewFakeClock(epoch)
	scope := NewScope(clock, Inline)

	calls := 0
	scope.After(time.Second, func() { calls++ })
	clock.Advance(999 * time.Millisecond)
	require.Zero(t, calls)
	clock.Advance(5 * time.Second)
	require.Equal(t, 1, calls)
	require.Zero(t, scope.Pending())
}

func TestCloseCancelsEveryTimer(t *testing.T) {
	clock := NewFakeClock(epoch)
	scope := NewScope(clock, Inline)

	calls := 0
	scope.Every(10*time.Millisecond, func() { calls++ })
	scope.After(50*time.Millisecond, func() { calls += 100 })
	clock.Advance(25 * time.Millisecond)
	require.Equal(t, 2, calls)

	scope.Close()
	require.False(t, scope.Active())
	clock.Advance(time.Second)
	require.Equal(t, 2, calls)
	require.Zero(t, clock.Pending())

	// timers requested after close are ignored
	scope.After(time.Millisecond, func() { calls++ })
	clock.Advance(time.Second)
	require.Equal(t, 2, calls)
}

func TestCancelFuncIsIdempotent(t *testing.T) {
	clock := NewFakeClock(epoch)
	scope := NewScope(clock, Inline)

	calls := 0
	cancel := scope.Every(10*time.Millisecond, func() { calls++ })
	clock.Advance(10 * time.Millisecond)
	cancel()
	cancel()
	clock.Advance(time.Second)
	require.Equal(t, 1, calls)
}

func TestStaleCallbackIsDroppedAfterClose(t *testing.T) {
	clock := NewFakeClock(epoch)
	loop := NewLoop()
	scope := NewScope(clock, loop.Dispatch)

	calls := 0
	scope.Every(10*time.Millisecond, func() { calls++ })
	// the tick is queued on the loop but the widget unmounts before the loop runs it
	clock.Advance(10 * time.Millisecond)
	scope.Close()
	require.Equal(t, 1, loop.RunPending())
	require.Zero(t, calls)
}

func TestPostRunsOnLoopUnlessClosed(t *testing.T) {
	loop := NewLoop()
	scope := NewScope(NewFakeClock(epoch), loop.Dispatch)

	got := ""
	done := make(chan struct{})
	go func() {
		scope.Post(func() { got = "done" })
		close(done)
	}()
	<-done
	loop.RunPending()
	require.Equal(t, "done", got)

	scope.Close()
	scope.Post(func() { got = "late" })
	loop.RunPending()
	require.Equal(t, "done", got)
}

func TestLoopRunStopsWithContext(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(stopped)
	}()
	loop.Dispatch(func() { close(ran) })
	<-ran
	cancel()
	<-stopped

	// dispatch after close is dropped
	loop.Dispatch(func() { t.Error("callback ran after loop closed") })
	require.Zero(t, loop.RunPending())
}
