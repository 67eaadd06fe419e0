package booking

import "sync"

// Ledger holds the accepted reservations of one resource. Reserve is the
// only way the set grows and runs under the ledger's own mutex, so two
// racing calls can never both pass the conflict scan. Ledgers of different
// resources share nothing.
type Ledger struct {
	mu        sync.Mutex
	intervals []Interval
}

// NewLedger builds a ledger seeded with previously accepted intervals,
// e.g. rehydrated from storage.
func NewLedger(accepted ...Interval) *Ledger {
	l := &Ledger{}
	l.intervals = append(l.intervals, accepted...)
	return l
}

// Reserve adds candidate unless it overlaps an accepted reservation. On
// conflict the ledger is left untouched and the returned ConflictError
// names both the candidate and the reservation in the way.
func (l *Ledger) Reserve(candidate Interval) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.intervals {
		if candidate.Intersects(existing) {
			return &ConflictError{Candidate: candidate, Existing: existing}
		}
	}
	l.intervals = append(l.intervals, candidate)
	return nil
}

// Intervals returns a copy of the accepted reservations.
func (l *Ledger) Intervals() []Interval {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Interval, len(l.intervals))
	copy(out, l.intervals)
	return out
}

// Len returns the number of accepted reservations.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.intervals)
}
