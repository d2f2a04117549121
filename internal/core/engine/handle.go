package engine

// Handle is the interactive layer's connection to the engine. It is cheap
// to copy and safe for concurrent use from any goroutine.
type Handle struct {
	q *requestQueue
}

// Send submits a request to the engine. It never blocks and never fails
// observably: requests sent after shutdown are silently dropped.
func (h Handle) Send(r Request) {
	if h.q == nil {
		return
	}
	h.q.Enqueue(r)
}

// Close closes the request queue. The engine serves already-queued
// requests and then stops, exactly as if it had received a Shutdown.
// Close is idempotent.
func (h Handle) Close() {
	if h.q == nil {
		return
	}
	h.q.Close()
}
