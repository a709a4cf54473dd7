package triplestore

import (
	"sync"
	"time"
)

// EventStatus distinguishes the three outcomes of a bounded-wait receive.
type EventStatus int

const (
	// EventReady means Receive returned a genuine triplet.
	EventReady EventStatus = iota
	// EventTimeout means the wait window elapsed with nothing queued.
	EventTimeout
	// EventClosed means the log was closed and is now empty.
	EventClosed
)

// WriteLog is the unbounded single-producer, single-consumer FIFO described
// in §4.2/§6: every insert publishes onto it, and the pipeline driver drains
// it with a bounded-wait Receive to detect quiescence. Ownership of the
// receiving side passes to whoever calls NewDatabase; the sending side lives
// inside the Database and is not exposed directly.
type WriteLog struct {
	mu     sync.Mutex
	queue  []Triplet
	notify chan struct{}
	closed bool
}

func newWriteLog() *WriteLog {
	return &WriteLog{notify: make(chan struct{}, 1)}
}

func (w *WriteLog) push(t Triplet) {
	w.mu.Lock()
	w.queue = append(w.queue, t)
	w.mu.Unlock()

	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Close marks the log as closed; subsequent Receive calls drain whatever is
// still queued and then report EventClosed instead of EventTimeout.
func (w *WriteLog) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Receive waits up to timeout for the next triplet. It returns (t,
// EventReady) as soon as one is available, (zero, EventTimeout) if the
// window elapses first, or (zero, EventClosed) if the log is closed and
// drained.
func (w *WriteLog) Receive(timeout time.Duration) (Triplet, EventStatus) {
	deadline := time.Now().Add(timeout)

	for {
		w.mu.Lock()
		if len(w.queue) > 0 {
			t := w.queue[0]
			w.queue = w.queue[1:]
			w.mu.Unlock()
			return t, EventReady
		}
		closed := w.closed
		w.mu.Unlock()

		if closed {
			return Triplet{}, EventClosed
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Triplet{}, EventTimeout
		}

		select {
		case <-w.notify:
			// loop around and re-check the queue
		case <-time.After(remaining):
			return Triplet{}, EventTimeout
		}
	}
}
