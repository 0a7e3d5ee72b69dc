package syncx

import "sync"

// Latch is a one-shot guarded value: the first Trip wins and stores its
// value, every later attempt loses. Safe for concurrent use.
type Latch[T any] struct {
	mu      sync.Mutex
	tripped bool
	value   T
}

// Trip stores v if the latch has not fired yet. Returns true for the winner.
func (l *Latch[T]) Trip(v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tripped {
		return false
	}
	l.tripped = true
	l.value = v
	return true
}

// Tripped reports whether the latch has fired.
func (l *Latch[T]) Tripped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tripped
}

// Value returns the stored value and whether the latch has fired.
func (l *Latch[T]) Value() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.tripped
}
