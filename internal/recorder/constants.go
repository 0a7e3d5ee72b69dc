package recorder

import "time"

// Session timing constants
const (
	// TickQuantum is the sleep slice of the duration wait loop.
	TickQuantum = 100 * time.Millisecond

	// DriftMargin is how close the wall clock must be to the expected
	// end before the wait stops on absolute time rather than tick count.
	DriftMargin = 50 * time.Millisecond

	// SafetyMargin bounds how far past the target the wall clock may run
	// before the wait force-stops. Only pathological stalls (system
	// suspend, runaway scheduling) reach it.
	SafetyMargin = 5 * time.Second

	// InterruptExitWait is how long the interrupt coordinator waits for
	// the session to wind down before forcing the process to exit.
	InterruptExitWait = 15 * time.Second

	// DefaultProgressInterval is the progress reporter period.
	DefaultProgressInterval = time.Second

	// TrailMaxEvents bounds the in-memory session event trail.
	TrailMaxEvents = 256

	// dropLogEvery rate-limits dropped-sample warnings.
	dropLogEvery = 100
)

// Process exit codes
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitInterruptStuck = 130
)
