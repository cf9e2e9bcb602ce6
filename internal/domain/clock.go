package domain

import "github.com/jonboulle/clockwork"

// clock stamps processed_at and run completion times. Tests freeze it with
// SetClock for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
