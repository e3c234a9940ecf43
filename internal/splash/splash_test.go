package splash

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snix.ai/snix-web/internal/timer"
)

func start(t *testing.T) (*timer.FakeClock, *timer.Scope) {
	t.Helper()
	clock := timer.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	return clock, timer.NewScope(clock, timer.Inline)
}

func TestCompletionFiresOnceAfterTotalDuration(t *testing.T) {
	clock, scope := start(t)
	g := New(DefaultConfig())

	calls := 0
	g.Start(scope, nil, func() { calls++ })

	clock.Advance(3499 * time.Millisecond)
	require.Zero(t, calls)
	require.False(t, g.State().Visible)

	clock.Advance(time.Millisecond)
	require.Equal(t, 1, calls)

	clock.Advance(time.Minute)
	require.Equal(t, 1, calls)
	require.Zero(t, clock.Pending())
}

func TestProgressSaturatesAndMessagesWrap(t *testing.T) {
	clock, scope := start(t)
	g := New(DefaultConfig())

	var states []State
	g.Start(scope, func(s State) { states = append(states, s) }, nil)

	clock.Advance(60 * time.Millisecond)
	require.Equal(t, 2, g.State().Progress)

	clock.Advance(690 * time.Millisecond)
	require.Equal(t, 1, g.State().MessageIndex)
	require.Equal(t, "Loading Creative Assets...", g.State().Message)

	clock.Advance(2250 * time.Millisecond)
	st := g.State()
	require.Equal(t, 100, st.Progress)
	require.Equal(t, 0, st.MessageIndex, "message index wraps after four rotations")
	require.False(t, st.Visible)

	for _, s := range states {
		require.LessOrEqual(t, s.Progress, 100)
		require.GreaterOrEqual(t, s.MessageIndex, 0)
		require.Less(t, s.MessageIndex, 4)
	}
}

func TestUnmountCancelsCompletion(t *testing.T) {
	clock, scope := start(t)
	g := New(DefaultConfig())

	calls := 0
	g.Start(scope, nil, func() { calls++ })
	clock.Advance(3200 * time.Millisecond)
	scope.Close()
	clock.Advance(time.Minute)
	require.Zero(t, calls)
	require.False(t, g.Completed())
}

func TestSkipCompletesImmediately(t *testing.T) {
	clock, scope := start(t)
	g := New(Config{})

	calls := 0
	g.Start(scope, nil, func() { calls++ })
	g.Skip(func() { calls++ })
	require.Equal(t, 1, calls)
	require.Equal(t, 100, g.State().Progress)

	scope.Close()
	clock.Advance(time.Minute)
	require.Equal(t, 1, calls)
}

func TestTotal(t *testing.T) {
	require.Equal(t, 3500*time.Millisecond, DefaultConfig().Total())
}
