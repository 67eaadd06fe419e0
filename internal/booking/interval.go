package booking

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Interval is a validated reservation span at half-day granularity,
// inclusive of both end slots. Every Interval in existence satisfies
// start <= end, and when both bounds fall on the same calendar day the
// start period is strictly before the end period. The constructors below
// are the only way to obtain one; the zero value is not a valid interval
// and never leaves this package.
type Interval struct {
	start       time.Time
	startPeriod Period
	end         time.Time
	endPeriod   Period
}

// NewInterval parses two YYYY-MM-DD date strings into an interval covering
// the whole of both days: Morning start, Afternoon end.
func NewInterval(startDate, endDate string) (Interval, error) {
	return NewIntervalWithPeriods(Morning, startDate, Afternoon, endDate)
}

// NewIntervalWithPeriods parses both date strings and validates the
// requested span with the given half-day bounds.
func NewIntervalWithPeriods(startPeriod Period, startDate string, endPeriod Period, endDate string) (Interval, error) {
	startDay, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return Interval{}, &DateError{Bound: BoundStart, Raw: startDate}
	}
	endDay, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return Interval{}, &DateError{Bound: BoundEnd, Raw: endDate}
	}
	return IntervalFromParts(startDay, startPeriod, endDay, endPeriod)
}

// IntervalFromParts validates bounds that were produced earlier, e.g. read
// back from storage. It applies the same rules as the parsing constructors
// so no interval can bypass them. Only the calendar date of each argument
// is used; the instant is rebuilt from the period's boundary clock.
func IntervalFromParts(startDay time.Time, startPeriod Period, endDay time.Time, endPeriod Period) (Interval, error) {
	sd := dateOnly(startDay)
	ed := dateOnly(endDay)

	if sd.After(ed) {
		return Interval{}, ErrInvertedRange
	}
	if sd.Equal(ed) {
		switch startPeriod.Compare(endPeriod) {
		case 0:
			return Interval{}, &SameDayError{Reason: SamePeriodTwice}
		case 1:
			return Interval{}, &SameDayError{Reason: PeriodsReversed}
		}
	}

	return Interval{
		start:       atBoundary(sd, startPeriod),
		startPeriod: startPeriod,
		end:         atBoundary(ed, endPeriod),
		endPeriod:   endPeriod,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func atBoundary(day time.Time, p Period) time.Time {
	h, m, s := p.BoundaryClock()
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, time.UTC)
}

// Start returns the absolute UTC instant of the interval's first slot.
func (i Interval) Start() time.Time { return i.start }

// End returns the absolute UTC instant of the interval's last slot.
func (i Interval) End() time.Time { return i.end }

func (i Interval) StartPeriod() Period { return i.startPeriod }
func (i Interval) EndPeriod() Period   { return i.endPeriod }

// StartDay returns the first calendar day at midnight UTC.
func (i Interval) StartDay() time.Time { return dateOnly(i.start) }

// EndDay returns the last calendar day at midnight UTC.
func (i Interval) EndDay() time.Time { return dateOnly(i.end) }

func (i Interval) String() string {
	return fmt.Sprintf("%s %s .. %s %s",
		i.start.Format(dateLayout), i.startPeriod,
		i.end.Format(dateLayout), i.endPeriod)
}

// Compatible reports whether i and other claim no common half-day slot.
// That holds when one interval is strictly over before the other begins,
// or when they meet on one calendar day that is split cleanly between
// them: one ends that day's morning, the other starts its afternoon. The
// touching case is checked in both directions, which makes the predicate
// commutative by construction.
func (i Interval) Compatible(other Interval) bool {
	return i.end.Before(other.start) ||
		i.start.After(other.end) ||
		(i.end.Equal(other.start) && i.endPeriod.Compare(other.startPeriod) < 0) ||
		(other.end.Equal(i.start) && other.endPeriod.Compare(i.startPeriod) < 0)
}

// Intersects reports whether i and other share at least one half-day
// slot. An interval always intersects a copy of itself.
func (i Interval) Intersects(other Interval) bool {
	return !i.Compatible(other)
}
