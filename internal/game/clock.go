package game

import (
	"sync"
	"time"
)

// Ticker abstracts time.Ticker so tests can drive virtual time.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a ticker firing at the given interval.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewTicker is the production TickerFactory backed by time.NewTicker.
func NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Clock is a one-second countdown. While armed it ticks once per elapsed
// second; reaching zero emits expiry exactly once and disarms. Overlapping
// Start calls replace the previous countdown rather than stacking.
type Clock struct {
	newTicker TickerFactory

	mu   sync.Mutex
	gen  uint64
	stop chan struct{}
}

// NewClock builds a clock. A nil factory uses real one-second ticks.
func NewClock(factory TickerFactory) *Clock {
	if factory == nil {
		factory = NewTicker
	}
	return &Clock{newTicker: factory}
}

// Start arms a countdown of the given number of seconds. onTick receives the
// remaining count after each elapsed second; onExpire fires once at zero.
// Starting with seconds <= 0 expires on the first tick boundary, never
// synchronously.
func (c *Clock) Start(seconds int, onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	c.cancelLocked()
	c.gen++
	gen := c.gen
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	go c.run(gen, seconds, stop, onTick, onExpire)
}

// Cancel disarms the countdown without emitting expiry.
func (c *Clock) Cancel() {
	c.mu.Lock()
	c.cancelLocked()
	c.mu.Unlock()
}

func (c *Clock) cancelLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Clock) run(gen uint64, remaining int, stop chan struct{}, onTick func(int), onExpire func()) {
	ticker := c.newTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			remaining--
			if remaining <= 0 {
				if c.disarm(gen) && onExpire != nil {
					onExpire()
				}
				return
			}
			if !c.armed(gen) {
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
}

// disarm claims the expiry for this generation; it fails if the countdown
// was cancelled or replaced, so expiry is emitted at most once.
func (c *Clock) disarm(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.stop == nil {
		return false
	}
	close(c.stop)
	c.stop = nil
	return true
}

func (c *Clock) armed(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen && c.stop != nil
}
