// Package clock abstracts timer scheduling so the engine's debounce and
// interval behavior can be driven by a virtual clock in tests. Production
// code injects Real(); tests inject Fake() and advance time explicitly.
package clock

import "time"

// Clock is the timer capability injected into components that schedule
// work. Components must never call the time package directly for
// anything they need to cancel or that tests need to control.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules f to run after d elapses. The returned Timer
	// cancels the pending call via Stop.
	AfterFunc(d time.Duration, f func()) Timer

	// TickFunc schedules f to run every d until the returned Ticker is
	// stopped. The first call happens one full interval after scheduling.
	TickFunc(d time.Duration, f func()) Ticker
}

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the timer from firing. Returns false if it already
	// fired or was stopped.
	Stop() bool
}

// Ticker is a repeating callback.
type Ticker interface {
	// Stop ends the tick cycle. No calls are made after Stop returns.
	Stop()
}
