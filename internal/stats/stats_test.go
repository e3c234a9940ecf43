package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snix.ai/snix-web/internal/timer"
)

func TestValueSequenceIsNonDecreasingAndEndsAtTarget(t *testing.T) {
	for _, target := range Defaults {
		prev := -1
		for step := 0; step <= DefaultSteps; step++ {
			v := Value(target.Value, step, DefaultSteps)
			require.GreaterOrEqual(t, v, prev, "%s step %d", target.Key, step)
			require.LessOrEqual(t, v, target.Value)
			prev = v
		}
		require.Equal(t, target.Value, prev, target.Key)
	}
}

func TestValueEasing(t *testing.T) {
	require.Equal(t, 0, Value(200, 0, 60))
	// 1 - (1 - 0.5)^4 = 0.9375
	require.Equal(t, 187, Value(200, 30, 60))
	require.Equal(t, 24, Value(24, 60, 60))
	require.Equal(t, 24, Value(24, 99, 60))
}

func TestAnimatorTriggersOnce(t *testing.T) {
	clock := timer.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	scope := timer.NewScope(clock, timer.Inline)
	a := NewAnimator(Defaults, 0, 0)

	var frames []Frame
	require.True(t, a.Trigger(scope, func(f Frame) { frames = append(frames, f) }))
	require.False(t, a.Trigger(scope, func(Frame) { t.Fatal("second trigger ran") }))

	clock.Advance(DefaultDuration + time.Second)
	require.Len(t, frames, DefaultSteps)
	last := frames[len(frames)-1]
	require.True(t, last.Done)
	require.Equal(t, map[string]int{"projects": 200, "clients": 50, "successRate": 98, "support": 24}, last.Values)
	require.Zero(t, clock.Pending())

	for key := range last.Values {
		prev := 0
		for _, f := range frames {
			require.GreaterOrEqual(t, f.Values[key], prev)
			prev = f.Values[key]
		}
	}
}

func TestAnimatorStopsWithScope(t *testing.T) {
	clock := timer.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	scope := timer.NewScope(clock, timer.Inline)
	a := NewAnimator(Defaults, 60, 5*time.Second)
	a.Trigger(scope, nil)

	clock.Advance(time.Second)
	scope.Close()
	at := a.Snapshot()
	clock.Advance(10 * time.Second)
	require.Equal(t, at, a.Snapshot())
	require.False(t, at.Done)
}
