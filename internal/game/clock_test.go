package game

import (
	"sync"
	"testing"
	"time"
)

// fakeTicker lets tests drive virtual time through a buffered channel.
type fakeTicker struct {
	c chan time.Time
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{c: make(chan time.Time, 64)}
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               {}

func (f *fakeTicker) tick() {
	f.c <- time.Now()
}

// tickerScript hands out fake tickers in order of Start calls.
type tickerScript struct {
	mu      sync.Mutex
	tickers []*fakeTicker
	next    int
}

func (s *tickerScript) factory(time.Duration) Ticker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.tickers) {
		s.tickers = append(s.tickers, newFakeTicker())
	}
	t := s.tickers[s.next]
	s.next++
	return t
}

func (s *tickerScript) ticker(index int) (*fakeTicker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < len(s.tickers) {
		return s.tickers[index], true
	}
	return nil, false
}

func TestClockCountsDownAndExpires(t *testing.T) {
	script := &tickerScript{}
	clock := NewClock(script.factory)

	ticks := make(chan int, 8)
	expired := make(chan struct{}, 1)
	clock.Start(3, func(remaining int) { ticks <- remaining }, func() { expired <- struct{}{} })

	ticker := waitForTicker(t, script, 0)
	ticker.tick()
	if got := recvInt(t, ticks); got != 2 {
		t.Fatalf("expected 2 remaining, got %d", got)
	}
	ticker.tick()
	if got := recvInt(t, ticks); got != 1 {
		t.Fatalf("expected 1 remaining, got %d", got)
	}
	ticker.tick()
	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatalf("expected expiry after final tick")
	}
}

func TestClockCancelSuppressesExpiry(t *testing.T) {
	script := &tickerScript{}
	clock := NewClock(script.factory)

	expired := make(chan struct{}, 1)
	clock.Start(1, nil, func() { expired <- struct{}{} })
	ticker := waitForTicker(t, script, 0)

	clock.Cancel()
	ticker.tick()

	select {
	case <-expired:
		t.Fatalf("expiry fired after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClockRestartReplacesCountdown(t *testing.T) {
	script := &tickerScript{}
	clock := NewClock(script.factory)

	expired := make(chan string, 2)
	clock.Start(1, nil, func() { expired <- "first" })
	first := waitForTicker(t, script, 0)

	clock.Start(1, nil, func() { expired <- "second" })
	second := waitForTicker(t, script, 1)

	// The replaced countdown's tick must not produce an expiry.
	first.tick()
	second.tick()

	select {
	case who := <-expired:
		if who != "second" {
			t.Fatalf("expected second countdown to expire, got %s", who)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected expiry from replacement countdown")
	}
	select {
	case who := <-expired:
		t.Fatalf("unexpected extra expiry from %s", who)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClockZeroSecondsExpiresOnTickBoundary(t *testing.T) {
	script := &tickerScript{}
	clock := NewClock(script.factory)

	expired := make(chan struct{}, 1)
	clock.Start(0, nil, func() { expired <- struct{}{} })

	// Never synchronously: arming alone must not expire.
	select {
	case <-expired:
		t.Fatalf("expiry fired before the first tick boundary")
	case <-time.After(50 * time.Millisecond):
	}

	waitForTicker(t, script, 0).tick()
	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatalf("expected expiry on first tick boundary")
	}
}

func waitForTicker(t *testing.T, script *tickerScript, index int) *fakeTicker {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ticker, ok := script.ticker(index); ok {
			return ticker
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("ticker %d was never created", index)
	return nil
}

func recvInt(t *testing.T, ch chan int) int {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for tick")
		return 0
	}
}
