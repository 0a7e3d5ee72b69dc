package writer

import "sync"

// queue is a bounded buffer between sample delivery and the subprocess
// pipe. Enqueue never blocks: a full or closed queue rejects the buffer.
type queue struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func newQueue(capacity int) *queue {
	return &queue{ch: make(chan []byte, capacity)}
}

func (q *queue) tryEnqueue(b []byte) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- b:
		return true
	default:
		return false
	}
}

// close ends the queue; buffers already queued still drain. Idempotent.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
