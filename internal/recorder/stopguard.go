package recorder

import (
	"sync/atomic"

	"github.com/screenrec/screenrec/internal/syncx"
)

// StopReason identifies what ended the capture phase.
type StopReason string

const (
	ReasonDurationElapsed StopReason = "duration-elapsed"
	ReasonInterrupt       StopReason = "interrupt"
	ReasonSafetyTimeout   StopReason = "safety-timeout"
	ReasonStreamFailure   StopReason = "stream-failure"
)

// StopGuard arbitrates between concurrent stop triggers. Exactly one Trip
// wins and fixes the stop reason; every later trigger becomes a no-op. The
// interrupt flag is observable independently of the latch so wait loops can
// react to a pending interrupt before any stop reason is decided.
type StopGuard struct {
	latch       syncx.Latch[StopReason]
	interrupted atomic.Bool
}

// Trip fixes the stop reason. Returns true for the winning trigger.
func (g *StopGuard) Trip(reason StopReason) bool {
	return g.latch.Trip(reason)
}

// Tripped reports whether any trigger has won.
func (g *StopGuard) Tripped() bool {
	return g.latch.Tripped()
}

// Reason returns the winning stop reason, if any trigger won yet.
func (g *StopGuard) Reason() (StopReason, bool) {
	return g.latch.Value()
}

// MarkInterrupted raises the interrupt flag. Safe to call any number of
// times from any goroutine.
func (g *StopGuard) MarkInterrupted() {
	g.interrupted.Store(true)
}

// Interrupted reports whether an interrupt is pending.
func (g *StopGuard) Interrupted() bool {
	return g.interrupted.Load()
}
