package booking

import (
	"fmt"
	"strings"
)

// Period identifies which half of a calendar day a reservation bound refers
// to. The order is fixed: Morning sorts strictly before Afternoon.
type Period int

const (
	Morning Period = iota
	Afternoon
)

// BoundaryClock returns the time of day a bound with this period maps to:
// the first second of the day for Morning, the last for Afternoon.
func (p Period) BoundaryClock() (hour, min, sec int) {
	if p == Afternoon {
		return 23, 59, 59
	}
	return 0, 0, 0
}

// Compare returns -1, 0 or 1 following the order Morning < Afternoon.
func (p Period) Compare(other Period) int {
	switch {
	case p < other:
		return -1
	case p > other:
		return 1
	default:
		return 0
	}
}

func (p Period) String() string {
	if p == Afternoon {
		return "afternoon"
	}
	return "morning"
}

// ParsePeriod accepts "morning" or "afternoon", case-insensitive.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning":
		return Morning, nil
	case "afternoon":
		return Afternoon, nil
	}
	return Morning, fmt.Errorf("unknown period %q (want morning or afternoon)", s)
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
