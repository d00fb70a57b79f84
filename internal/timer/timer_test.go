package timer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickRecorder struct {
	mu    sync.Mutex
	ticks []int
}

func (r *tickRecorder) record(remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, remaining)
}

func (r *tickRecorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...)
}

func TestCountdown_TicksDownToExpiry(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	countdown := NewCountdown(clock)

	recorder := &tickRecorder{}
	var expired atomic.Int32

	require.NoError(t, countdown.Arm(3, recorder.record, func() { expired.Add(1) }))

	clock.Advance(3 * time.Second)

	require.Eventually(t, func() bool {
		return expired.Load() == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, []int{2, 1, 0}, recorder.snapshot())
}

func TestCountdown_ExpiresExactlyOnce(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	countdown := NewCountdown(clock)

	var expired atomic.Int32
	require.NoError(t, countdown.Arm(2, nil, func() { expired.Add(1) }))

	// Advancing far past the deadline must not refire expiry.
	clock.Advance(10 * time.Second)

	require.Eventually(t, func() bool {
		return expired.Load() == 1
	}, time.Second, time.Millisecond)

	clock.Advance(10 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), expired.Load())
}

func TestCountdown_CancelStopsCallbacks(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	countdown := NewCountdown(clock)

	recorder := &tickRecorder{}
	var expired atomic.Int32

	require.NoError(t, countdown.Arm(5, recorder.record, func() { expired.Add(1) }))

	clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool {
		return len(recorder.snapshot()) == 2
	}, time.Second, time.Millisecond)

	countdown.Cancel()
	clock.Advance(10 * time.Second)
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, []int{4, 3}, recorder.snapshot())
	assert.Equal(t, int32(0), expired.Load())
}

func TestCountdown_CancelIsIdempotent(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	countdown := NewCountdown(clock)

	require.NoError(t, countdown.Arm(5, nil, nil))
	countdown.Cancel()
	countdown.Cancel()
}

func TestCountdown_CancelFromExpiryCallback(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	countdown := NewCountdown(clock)

	var expired atomic.Int32
	require.NoError(t, countdown.Arm(1, nil, func() {
		// Hosts cancel defensively on submit; expiry must tolerate it.
		countdown.Cancel()
		expired.Add(1)
	}))

	clock.Advance(time.Second)
	require.Eventually(t, func() bool {
		return expired.Load() == 1
	}, time.Second, time.Millisecond)
}

func TestCountdown_ArmValidation(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))

	t.Run("nil clock", func(t *testing.T) {
		countdown := NewCountdown(nil)
		assert.ErrorIs(t, countdown.Arm(5, nil, nil), ErrClockUnavailable)
	})

	t.Run("non positive duration", func(t *testing.T) {
		countdown := NewCountdown(clock)
		assert.ErrorIs(t, countdown.Arm(0, nil, nil), ErrInvalidDuration)
		assert.ErrorIs(t, countdown.Arm(-1, nil, nil), ErrInvalidDuration)
	})

	t.Run("double arm", func(t *testing.T) {
		countdown := NewCountdown(clock)
		require.NoError(t, countdown.Arm(5, nil, nil))
		assert.ErrorIs(t, countdown.Arm(5, nil, nil), ErrAlreadyArmed)
		countdown.Cancel()
	})

	t.Run("arm after cancel", func(t *testing.T) {
		countdown := NewCountdown(clock)
		require.NoError(t, countdown.Arm(5, nil, nil))
		countdown.Cancel()
		assert.ErrorIs(t, countdown.Arm(5, nil, nil), ErrAlreadyArmed)
	})
}

func TestManualClock_Advance(t *testing.T) {
	start := time.Unix(100, 0)
	clock := NewManualClock(start)

	assert.Equal(t, start, clock.Now())

	ticker := clock.NewTicker(time.Second)
	clock.Advance(2500 * time.Millisecond)

	assert.Equal(t, start.Add(2500*time.Millisecond), clock.Now())
	assert.Len(t, drain(ticker.C()), 2)

	ticker.Stop()
	clock.Advance(5 * time.Second)
	assert.Empty(t, drain(ticker.C()))
}

func drain(ch <-chan time.Time) []time.Time {
	var out []time.Time
	for {
		select {
		case tick := <-ch:
			out = append(out, tick)
		default:
			return out
		}
	}
}
