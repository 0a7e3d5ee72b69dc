package recorder

import (
	"sync"
	"testing"
)

func TestStopGuardSingleWinner(t *testing.T) {
	guard := &StopGuard{}
	reasons := []StopReason{ReasonDurationElapsed, ReasonInterrupt, ReasonStreamFailure, ReasonSafetyTimeout}

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	var won StopReason

	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(r StopReason) {
			defer wg.Done()
			if guard.Trip(r) {
				mu.Lock()
				winners++
				won = r
				mu.Unlock()
			}
		}(reasons[i%len(reasons)])
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("winners = %d, want 1", winners)
	}
	reason, tripped := guard.Reason()
	if !tripped {
		t.Fatal("guard should be tripped")
	}
	if reason != won {
		t.Errorf("stored reason = %s, want winner %s", reason, won)
	}
}

func TestStopGuardReasonStable(t *testing.T) {
	guard := &StopGuard{}

	if !guard.Trip(ReasonDurationElapsed) {
		t.Fatal("first trip should win")
	}
	if guard.Trip(ReasonInterrupt) {
		t.Error("second trip should lose")
	}
	if reason, _ := guard.Reason(); reason != ReasonDurationElapsed {
		t.Errorf("reason = %s, want %s", reason, ReasonDurationElapsed)
	}
}

func TestStopGuardInterruptFlagIndependent(t *testing.T) {
	guard := &StopGuard{}

	guard.MarkInterrupted()
	if !guard.Interrupted() {
		t.Error("interrupt flag should be raised")
	}
	if guard.Tripped() {
		t.Error("flag alone must not trip the guard")
	}

	guard.Trip(ReasonDurationElapsed)
	if reason, _ := guard.Reason(); reason != ReasonDurationElapsed {
		t.Errorf("reason = %s, want %s", reason, ReasonDurationElapsed)
	}
}
