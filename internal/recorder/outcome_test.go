package recorder

import (
	"testing"

	"github.com/screenrec/screenrec/internal/errdefs"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		reason StopReason
		want   Classification
	}{
		{ReasonDurationElapsed, ClassOnTime},
		{ReasonInterrupt, ClassInterrupted},
		{ReasonSafetyTimeout, ClassSafetyStop},
		{ReasonStreamFailure, ClassError},
	}
	for _, tt := range tests {
		if got := classify(tt.reason); got != tt.want {
			t.Errorf("classify(%s) = %s, want %s", tt.reason, got, tt.want)
		}
	}
}

func TestOutcomeExitCode(t *testing.T) {
	completed := Outcome{State: StateCompleted, Classification: ClassOnTime}
	if completed.ExitCode() != ExitOK {
		t.Errorf("completed exit = %d, want %d", completed.ExitCode(), ExitOK)
	}

	interrupted := Outcome{State: StateCompleted, Classification: ClassInterrupted, Reason: errdefs.CodeInterrupted}
	if interrupted.ExitCode() != ExitOK {
		t.Errorf("interrupted exit = %d, want %d", interrupted.ExitCode(), ExitOK)
	}
	if !interrupted.Success() {
		t.Error("clean interrupt should count as success")
	}

	failed := Outcome{State: StateFailed, Classification: ClassError, Reason: errdefs.CodeFinalizeFailed}
	if failed.ExitCode() != ExitFailure {
		t.Errorf("failed exit = %d, want %d", failed.ExitCode(), ExitFailure)
	}
}
