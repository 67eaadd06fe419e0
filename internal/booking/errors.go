package booking

import (
	"errors"
	"fmt"
)

// Bound names which end of a requested range an error refers to.
type Bound string

const (
	BoundStart Bound = "start"
	BoundEnd   Bound = "end"
)

// ErrInvertedRange is returned when the end day precedes the start day.
var ErrInvertedRange = errors.New("start date is after end date")

// DateError reports a date string that does not parse as YYYY-MM-DD.
type DateError struct {
	Bound Bound
	Raw   string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s date %q is not a valid YYYY-MM-DD date", e.Bound, e.Raw)
}

// SameDayReason distinguishes the two ways a single-day request can span
// no half-day slot at all.
type SameDayReason int

const (
	SamePeriodTwice SameDayReason = iota
	PeriodsReversed
)

// SameDayError reports a request starting and ending on the same calendar
// day whose periods leave nothing to reserve.
type SameDayError struct {
	Reason SameDayReason
}

func (e *SameDayError) Error() string {
	if e.Reason == PeriodsReversed {
		return "same day but the reservation ends in the morning while starting in the afternoon"
	}
	return "same day but the reservation starts and ends at the same period"
}

// ConflictError reports a candidate that overlaps a reservation already
// accepted by the ledger. Both intervals are carried so the caller can
// show the user what is in the way.
type ConflictError struct {
	Candidate Interval
	Existing  Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested %s conflicts with existing reservation %s", e.Candidate, e.Existing)
}
