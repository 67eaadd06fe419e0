package sites

import (
	"fmt"
	"time"

	"github.com/example/sitebook/internal/booking"
	"github.com/google/uuid"
)

// Status tracks where a construction site is in its life.
type Status string

const (
	StatusNotCarried  Status = "not_carried"
	StatusInProgress  Status = "in_progress"
	StatusInterrupted Status = "interrupted"
	StatusCompleted   Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNotCarried, StatusInProgress, StatusInterrupted, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown site status %q", s)
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Duration is how long a site runs: a number of half-days counted from
// StartPeriod on the site's first day. A site lasts at least one half-day.
type Duration struct {
	HalfDays    int            `json:"half_days"`
	StartPeriod booking.Period `json:"start_period"`
}

type Worker struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type Site struct {
	ID          uuid.UUID
	Name        string
	Purpose     string
	Coordinates Coordinates
	StartDay    time.Time
	Duration    Duration
	Status      Status
	ClientPhone string
	Workers     []Worker

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Site) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name required")
	}
	if s.StartDay.IsZero() {
		return fmt.Errorf("start_day required")
	}
	if s.Duration.HalfDays < 1 {
		return fmt.Errorf("duration must be at least one half-day")
	}
	if s.Status != "" {
		if _, err := ParseStatus(string(s.Status)); err != nil {
			return err
		}
	}
	return nil
}

// Vehicle is a reservable resource assigned to a site. Its accepted
// reservations live in vehicle_reservations and are surfaced as a
// booking ledger.
type Vehicle struct {
	ID        uuid.UUID
	SiteID    uuid.UUID
	Name      string
	CreatedAt time.Time
}
