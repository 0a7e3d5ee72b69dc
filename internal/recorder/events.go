package recorder

import (
	"sync"
	"time"
)

// Event is one entry in the session trail.
type Event struct {
	At   time.Time
	Text string
}

// Trail is a bounded, ordered record of notable session events, kept for
// verbose output. When full it keeps the most recent entries.
type Trail struct {
	mu      sync.Mutex
	events  []Event
	maxSize int
}

// NewTrail creates a trail holding at most maxEvents entries.
func NewTrail(maxEvents int) *Trail {
	return &Trail{
		events:  make([]Event, 0, maxEvents),
		maxSize: maxEvents,
	}
}

// Record appends one event, evicting the oldest entries when full.
func (t *Trail) Record(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events = append(t.events, Event{At: time.Now(), Text: text})
	if len(t.events) > t.maxSize {
		t.events = t.events[len(t.events)-t.maxSize:]
	}
}

// Events returns a copy of the recorded events in order.
func (t *Trail) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}
