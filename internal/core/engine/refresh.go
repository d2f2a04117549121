package engine

import (
	"time"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// refreshEntry is one periodic fetch obligation: a filter slot plus where
// its results go.
type refreshEntry struct {
	filterIdx int
	filter    domain.FilterConfig
	interval  time.Duration
	notify    chan<- Event
	lastFetch time.Time
}

// RefreshScheduler tracks per-filter background refresh state. It is pure
// bookkeeping: it performs no I/O and owns no goroutine. The engine's
// worker goroutine is its sole user.
type RefreshScheduler struct {
	entries []refreshEntry
	now     func() time.Time
}

// NewRefreshScheduler creates an empty scheduler.
func NewRefreshScheduler() *RefreshScheduler {
	return &RefreshScheduler{now: time.Now}
}

// Register replaces every registration of the given view kind with one
// entry per filter config. New entries have never fired, so they count as
// due on the next tick.
func (s *RefreshScheduler) Register(kind domain.ViewKind, configs []domain.FilterConfig, interval time.Duration, notify chan<- Event) {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.filter.Kind() != kind {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	for idx, fc := range configs {
		if fc.Kind() != kind {
			continue
		}
		s.entries = append(s.entries, refreshEntry{
			filterIdx: idx,
			filter:    fc,
			interval:  interval,
			notify:    notify,
		})
	}
}

// MarkFetched records that the given filter slot was just fetched,
// pushing its next due time one full interval out.
func (s *RefreshScheduler) MarkFetched(filterIdx int, kind domain.ViewKind) {
	now := s.now()
	for i := range s.entries {
		e := &s.entries[i]
		if e.filter.Kind() == kind && e.filterIdx == filterIdx {
			e.lastFetch = now
		}
	}
}

// DueEntry is a registration whose refresh interval has elapsed, carrying
// everything the engine needs to perform the fetch and later MarkFetched.
type DueEntry struct {
	FilterIdx int
	Filter    domain.FilterConfig
	Notify    chan<- Event
}

// DueEntries returns, without mutating state, every registration that has
// never been fetched or whose interval has elapsed since the last fetch.
func (s *RefreshScheduler) DueEntries() []DueEntry {
	now := s.now()
	var due []DueEntry
	for _, e := range s.entries {
		if e.lastFetch.IsZero() || now.Sub(e.lastFetch) >= e.interval {
			due = append(due, DueEntry{
				FilterIdx: e.filterIdx,
				Filter:    e.filter,
				Notify:    e.notify,
			})
		}
	}
	return due
}

// Len returns the number of registrations across all view kinds.
func (s *RefreshScheduler) Len() int {
	return len(s.entries)
}
