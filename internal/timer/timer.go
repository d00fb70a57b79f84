package timer

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrClockUnavailable = errors.New("timer: clock source unavailable")
	ErrAlreadyArmed     = errors.New("timer: countdown already armed")
	ErrInvalidDuration  = errors.New("timer: duration must be positive")
)

// Countdown counts down whole seconds on top of a Clock.
//
// Guarantees: onTick reports the decremented remaining value once per second;
// onExpire fires at most once, when remaining reaches 0; after Cancel returns
// no further callback is dispatched. Cancellation is checked immediately
// before every dispatch, not merely scheduled.
type Countdown struct {
	clock Clock

	mu      sync.Mutex
	armed   bool
	stopped bool
	stop    chan struct{}
}

// NewCountdown creates an unarmed countdown over the given clock.
func NewCountdown(clock Clock) *Countdown {
	return &Countdown{clock: clock}
}

// Arm starts the countdown. It may be called once per Countdown.
func (c *Countdown) Arm(seconds int, onTick func(remaining int), onExpire func()) error {
	if c.clock == nil {
		return ErrClockUnavailable
	}
	if seconds <= 0 {
		return ErrInvalidDuration
	}

	c.mu.Lock()
	if c.armed || c.stopped {
		c.mu.Unlock()
		return ErrAlreadyArmed
	}
	c.armed = true
	c.stop = make(chan struct{})
	c.mu.Unlock()

	go c.run(seconds, onTick, onExpire)
	return nil
}

// Cancel stops the countdown. It is idempotent and safe to call from inside
// a callback.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	if c.stop != nil {
		close(c.stop)
	}
}

func (c *Countdown) run(seconds int, onTick func(int), onExpire func()) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C():
			remaining--

			if !c.live() {
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
			if remaining > 0 {
				continue
			}

			// Expiry stops the countdown itself; claim the stop under the
			// lock so a racing Cancel observes it.
			c.mu.Lock()
			expired := !c.stopped
			c.stopped = true
			c.mu.Unlock()

			if expired && onExpire != nil {
				onExpire()
			}
			return
		}
	}
}

func (c *Countdown) live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped
}
