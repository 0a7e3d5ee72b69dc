package recorder

import (
	"fmt"
	"testing"
)

func TestTrailBounded(t *testing.T) {
	trail := NewTrail(8)
	for i := 0; i < 20; i++ {
		trail.Record(fmt.Sprintf("event %d", i))
	}

	events := trail.Events()
	if len(events) != 8 {
		t.Fatalf("events = %d, want 8", len(events))
	}
	if events[0].Text != "event 12" {
		t.Errorf("oldest kept = %q, want %q", events[0].Text, "event 12")
	}
	if events[7].Text != "event 19" {
		t.Errorf("newest = %q, want %q", events[7].Text, "event 19")
	}
}

func TestTrailOrdered(t *testing.T) {
	trail := NewTrail(16)
	trail.Record("first")
	trail.Record("second")
	trail.Record("third")

	events := trail.Events()
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].At.Before(events[i-1].At) {
			t.Errorf("event %d out of order: %s before %s", i, events[i].At, events[i-1].At)
		}
	}
	if events[0].Text != "first" || events[2].Text != "third" {
		t.Errorf("order = %q..%q, want first..third", events[0].Text, events[2].Text)
	}
}

func TestTrailEventsReturnsCopy(t *testing.T) {
	trail := NewTrail(4)
	trail.Record("original")

	events := trail.Events()
	events[0].Text = "mutated"

	if got := trail.Events()[0].Text; got != "original" {
		t.Errorf("stored event = %q, want %q", got, "original")
	}
}
