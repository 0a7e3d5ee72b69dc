package recorder

import (
	"context"
	"time"
)

// Timekeeper waits out a fixed capture duration. Slept quanta are the
// primary elapsed measure; an absolute wall-clock check near the expected
// end corrects cumulative sleep drift, and a hard safety margin force-stops
// a wait whose wall clock ran far past the target (system suspend makes
// slept time and wall time disagree).
type Timekeeper struct {
	Quantum      time.Duration
	DriftMargin  time.Duration
	SafetyMargin time.Duration
}

// NewTimekeeper returns a Timekeeper with the standard margins.
func NewTimekeeper() *Timekeeper {
	return &Timekeeper{
		Quantum:      TickQuantum,
		DriftMargin:  DriftMargin,
		SafetyMargin: SafetyMargin,
	}
}

// Wait blocks until the target duration elapses, the guard trips, or ctx is
// cancelled. Whichever condition it observes first it records by tripping
// the guard; if another trigger already won, that reason stands. Returns
// the wall-clock time spent waiting and the classification of the winning
// reason. Context cancellation counts as an interrupt.
func (t *Timekeeper) Wait(ctx context.Context, target time.Duration, guard *StopGuard) (time.Duration, Classification) {
	start := time.Now()
	expectedEnd := start.Add(target)

	var ticked time.Duration
	for {
		if guard.Interrupted() || ctx.Err() != nil {
			guard.Trip(ReasonInterrupt)
			break
		}
		if guard.Tripped() {
			break
		}
		if ticked >= target {
			guard.Trip(ReasonDurationElapsed)
			break
		}
		now := time.Now()
		if gap := now.Sub(expectedEnd); gap >= -t.DriftMargin && gap <= t.DriftMargin {
			guard.Trip(ReasonDurationElapsed)
			break
		}
		if now.Sub(start) > target+t.SafetyMargin {
			guard.Trip(ReasonSafetyTimeout)
			break
		}
		time.Sleep(t.Quantum)
		ticked += t.Quantum
	}

	reason, _ := guard.Reason()
	return time.Since(start), classify(reason)
}
