package sites

import (
	"testing"
	"time"

	"github.com/example/sitebook/internal/booking"
	"github.com/stretchr/testify/assert"
)

func TestSiteValidate(t *testing.T) {
	valid := Site{
		Name:     "Rue des Lilas",
		Purpose:  "facade renovation",
		StartDay: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Duration: Duration{HalfDays: 4, StartPeriod: booking.Morning},
		Workers:  []Worker{{Name: "L. Fontaine", Role: "mason"}},
	}

	tests := []struct {
		name    string
		mutate  func(*Site)
		wantErr string
	}{
		{name: "valid", mutate: func(*Site) {}},
		{name: "missing name", mutate: func(s *Site) { s.Name = "" }, wantErr: "name required"},
		{name: "missing start day", mutate: func(s *Site) { s.StartDay = time.Time{} }, wantErr: "start_day required"},
		{name: "zero half-days", mutate: func(s *Site) { s.Duration.HalfDays = 0 }, wantErr: "at least one half-day"},
		{name: "bad status", mutate: func(s *Site) { s.Status = "paused" }, wantErr: "unknown site status"},
		{name: "known status", mutate: func(s *Site) { s.Status = StatusInterrupted }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusNotCarried, StatusInProgress, StatusInterrupted, StatusCompleted} {
		got, err := ParseStatus(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("demolished")
	assert.Error(t, err)
}
