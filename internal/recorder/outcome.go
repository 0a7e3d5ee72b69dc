package recorder

import (
	"time"

	"github.com/screenrec/screenrec/internal/errdefs"
)

// Classification describes how the session ended.
type Classification string

const (
	ClassOnTime      Classification = "on-time"
	ClassInterrupted Classification = "user-interrupted"
	ClassSafetyStop  Classification = "safety-timeout"
	ClassError       Classification = "error"
)

// classify maps the winning stop reason to the session classification.
// Errors discovered during stop and finalize override it later.
func classify(reason StopReason) Classification {
	switch reason {
	case ReasonInterrupt:
		return ClassInterrupted
	case ReasonSafetyTimeout:
		return ClassSafetyStop
	case ReasonStreamFailure:
		return ClassError
	default:
		return ClassOnTime
	}
}

// Outcome is the terminal report of one recording session.
type Outcome struct {
	State          State
	Classification Classification

	// Reason is the stable code for the outcome: CodeOK on clean
	// completion, CodeInterrupted on a clean user interrupt, otherwise
	// the code of Err.
	Reason errdefs.Code

	// Elapsed is the capture-phase duration. Zero when capture never
	// began.
	Elapsed time.Duration

	// OutputPath is set only when bytes reached the container, so a
	// possibly-partial file is always surfaced and a zero-output abort
	// never is.
	OutputPath   string
	BytesWritten int64

	VideoFrames  int64
	AudioChunks  int64
	DroppedVideo int64
	DroppedAudio int64

	// DiscardedAudio counts audio received before the timeline anchor.
	DiscardedAudio int64

	// StaticRatio is the share of sampled frame pairs that were
	// perceptually identical.
	StaticRatio float64

	Err   error
	Trail []Event
}

// Success reports whether the session ended acceptably. A user interrupt
// that finalized cleanly is a success.
func (o Outcome) Success() bool {
	return o.State == StateCompleted
}

// ExitCode maps the outcome to the process exit status.
func (o Outcome) ExitCode() int {
	if o.Success() {
		return ExitOK
	}
	return ExitFailure
}
