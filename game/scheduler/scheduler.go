// Package scheduler runs the game's timers. Loop drives them with wall-clock
// tickers; Manual advances a virtual clock for tests.
package scheduler

import "time"

// Handle identifies a scheduled timer. The zero Handle is never issued.
type Handle uint64

type Scheduler interface {
	// Every runs fn every d until cancelled.
	Every(d time.Duration, fn func()) Handle
	// After runs fn once after d unless cancelled first.
	After(d time.Duration, fn func()) Handle
	// Cancel stops a timer. Unknown or already fired handles are ignored.
	Cancel(h Handle)
}
