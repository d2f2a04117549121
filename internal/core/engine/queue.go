package engine

import "sync"

// requestQueue is a thread-safe unbounded FIFO of requests.
//
// Unbounded so Handle.Send can never block the interactive thread, no
// matter how far ahead of the worker it runs. Thread-safety covers
// external enqueuing from any goroutine while the engine loop dequeues.
//
// A buffered size-1 signal channel coalesces wake-ups so the engine loop
// can select over "request available" and its refresh timer.
type requestQueue struct {
	mu     sync.Mutex
	reqs   []Request
	closed bool
	signal chan struct{}
}

func newRequestQueue() *requestQueue {
	return &requestQueue{
		reqs:   make([]Request, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends a request. Never blocks. Returns false if the queue is
// closed (the engine has shut down; the request is dropped).
func (q *requestQueue) Enqueue(r Request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.reqs = append(q.reqs, r)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front request without blocking.
func (q *requestQueue) TryDequeue() (Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.reqs) == 0 {
		return nil, false
	}
	r := q.reqs[0]
	// Nil the slot so the backing array does not retain the request's
	// reply channel beyond its lifetime.
	q.reqs[0] = nil
	if len(q.reqs) == 1 {
		q.reqs = q.reqs[:0]
	} else {
		q.reqs = q.reqs[1:]
	}
	return r, true
}

// Wait returns a channel that signals when requests may be available.
// Closed permanently once Close is called.
func (q *requestQueue) Wait() <-chan struct{} {
	return q.signal
}

// Drained reports whether the queue is closed and empty, i.e. no request
// will ever arrive again.
func (q *requestQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.reqs) == 0
}

// Len returns the current queue length.
func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.reqs)
}

// Close marks the queue closed and wakes any waiter. Already-queued
// requests are still served before the engine stops.
func (q *requestQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
