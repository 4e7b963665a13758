package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a deterministic Clock for tests. Time stands still until
// Advance is called; pending callbacks whose deadlines fall within the
// advanced window fire synchronously, in deadline order.
//
// Do not call Advance from inside a scheduled callback.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock implements Clock with manually advanced time. Safe for
// concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	callback func()
	interval time.Duration // non-zero for tickers
	stopped  bool
	fired    bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to fire when the clock advances past d from now.
// A non-positive d fires synchronously before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	if d <= 0 {
		f()
		return firedTimer{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	w := &fakeWaiter{deadline: c.current.Add(d), callback: f}
	c.waiters = append(c.waiters, w)
	return &fakeTimer{clock: c, waiter: w}
}

// TickFunc registers f to fire every d as the clock advances. Panics if
// d <= 0.
func (c *FakeClock) TickFunc(d time.Duration, f func()) Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for TickFunc")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	w := &fakeWaiter{deadline: c.current.Add(d), callback: f, interval: d}
	c.waiters = append(c.waiters, w)
	return &fakeTicker{clock: c, waiter: w}
}

// Advance moves the clock forward by d, firing due callbacks in deadline
// order. Callbacks run without the clock lock held, so they may schedule
// new timers; newly scheduled timers whose deadlines also fall inside the
// advanced window fire during the same Advance call.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	for {
		w := c.nextDueLocked(target)
		if w == nil {
			break
		}
		if w.deadline.After(c.current) {
			c.current = w.deadline
		}
		if w.interval > 0 {
			w.deadline = w.deadline.Add(w.interval)
		} else {
			w.fired = true
		}
		cb := w.callback
		c.mu.Unlock()
		cb()
		c.mu.Lock()
	}
	c.current = target
	c.compactLocked()
	c.mu.Unlock()
}

// nextDueLocked returns the earliest live waiter due at or before target.
func (c *FakeClock) nextDueLocked(target time.Time) *fakeWaiter {
	sort.SliceStable(c.waiters, func(i, j int) bool {
		return c.waiters[i].deadline.Before(c.waiters[j].deadline)
	})
	for _, w := range c.waiters {
		if w.stopped || w.fired {
			continue
		}
		if !w.deadline.After(target) {
			return w
		}
	}
	return nil
}

func (c *FakeClock) compactLocked() {
	live := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.stopped && !w.fired {
			live = append(live, w)
		}
	}
	c.waiters = live
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

type fakeTimer struct {
	clock  *FakeClock
	waiter *fakeWaiter
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.waiter.stopped || t.waiter.fired {
		return false
	}
	t.waiter.stopped = true
	return true
}

type fakeTicker struct {
	clock  *FakeClock
	waiter *fakeWaiter
}

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.waiter.stopped = true
}
