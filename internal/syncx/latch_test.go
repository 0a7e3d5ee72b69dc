package syncx

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLatchFirstTripWins(t *testing.T) {
	var l Latch[string]

	if !l.Trip("first") {
		t.Error("first Trip should win")
	}
	if l.Trip("second") {
		t.Error("second Trip should lose")
	}

	v, ok := l.Value()
	if !ok {
		t.Error("Value() should report tripped")
	}
	if v != "first" {
		t.Errorf("Value() = %q, want %q", v, "first")
	}
}

func TestLatchUntripped(t *testing.T) {
	var l Latch[int]

	if l.Tripped() {
		t.Error("fresh latch should not be tripped")
	}
	if _, ok := l.Value(); ok {
		t.Error("Value() on fresh latch should report not tripped")
	}
}

func TestLatchConcurrentSingleWinner(t *testing.T) {
	var l Latch[int]
	var winners atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if l.Trip(n) {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if got := winners.Load(); got != 1 {
		t.Errorf("winners = %d, want exactly 1", got)
	}
	if !l.Tripped() {
		t.Error("latch should be tripped after the race")
	}
}
