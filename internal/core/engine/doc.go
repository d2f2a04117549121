// Package engine implements the background worker at the heart of
// forgedash. A single goroutine owns all outbound forge calls, serves a
// request/reply protocol to the interactive layer, runs the periodic
// background-refresh scheduler, and caches recent results.
//
// The interactive layer talks to the engine exclusively through a Handle:
// Send never blocks, and results arrive on reply channels carried by the
// requests themselves. Queued requests always beat the refresh timer, so
// interactive actions never wait behind scheduled work.
package engine
