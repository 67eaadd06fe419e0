package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{in: "morning", want: Morning},
		{in: "Afternoon", want: Afternoon},
		{in: " AFTERNOON ", want: Afternoon},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodBoundaryClock(t *testing.T) {
	h, m, s := Morning.BoundaryClock()
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{h, m, s})

	h, m, s = Afternoon.BoundaryClock()
	assert.Equal(t, [3]int{23, 59, 59}, [3]int{h, m, s})
}

func TestPeriodCompare(t *testing.T) {
	assert.Equal(t, -1, Morning.Compare(Afternoon))
	assert.Equal(t, 1, Afternoon.Compare(Morning))
	assert.Equal(t, 0, Morning.Compare(Morning))
}

func TestNewIntervalParsesDates(t *testing.T) {
	iv, err := NewInterval("2024-05-01", "2024-12-04")
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01", iv.StartDay().Format("2006-01-02"))
	assert.Equal(t, "2024-12-04", iv.EndDay().Format("2006-01-02"))
	assert.Equal(t, Morning, iv.StartPeriod())
	assert.Equal(t, Afternoon, iv.EndPeriod())
	assert.False(t, iv.Start().After(iv.End()))
}

func TestNewIntervalRejectsMalformedDates(t *testing.T) {
	_, err := NewInterval("not-a-date", "2024-12-04")
	var dateErr *DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, BoundStart, dateErr.Bound)
	assert.Equal(t, "not-a-date", dateErr.Raw)

	_, err = NewInterval("2024-05-01", "2024-13-40")
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, BoundEnd, dateErr.Bound)
}

func TestNewIntervalRejectsInvertedRange(t *testing.T) {
	_, err := NewInterval("3000-01-01", "2000-01-01")
	assert.ErrorIs(t, err, ErrInvertedRange)
}

func TestNewIntervalSameDay(t *testing.T) {
	tests := []struct {
		name       string
		start, end Period
		wantReason SameDayReason
		ok         bool
	}{
		{name: "morning to afternoon is a whole day", start: Morning, end: Afternoon, ok: true},
		{name: "same period twice", start: Morning, end: Morning, wantReason: SamePeriodTwice},
		{name: "afternoon twice", start: Afternoon, end: Afternoon, wantReason: SamePeriodTwice},
		{name: "reversed periods", start: Afternoon, end: Morning, wantReason: PeriodsReversed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewIntervalWithPeriods(tt.start, "2000-01-01", tt.end, "2000-01-01")
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, iv.StartDay(), iv.EndDay())
				return
			}
			var sameDay *SameDayError
			require.ErrorAs(t, err, &sameDay)
			assert.Equal(t, tt.wantReason, sameDay.Reason)
		})
	}
}

func mustInterval(t *testing.T, sp Period, start string, ep Period, end string) Interval {
	t.Helper()
	iv, err := NewIntervalWithPeriods(sp, start, ep, end)
	require.NoError(t, err)
	return iv
}

func TestIntervalIntersects(t *testing.T) {
	tests := []struct {
		name       string
		a, b       Interval
		intersects bool
	}{
		{
			name:       "disjoint days",
			a:          mustInterval(t, Morning, "2024-01-01", Afternoon, "2024-01-02"),
			b:          mustInterval(t, Morning, "2024-01-04", Afternoon, "2024-01-05"),
			intersects: false,
		},
		{
			name:       "nested span",
			a:          mustInterval(t, Morning, "2024-01-01", Afternoon, "2024-01-10"),
			b:          mustInterval(t, Morning, "2024-01-03", Afternoon, "2024-01-04"),
			intersects: true,
		},
		{
			name:       "partial overlap",
			a:          mustInterval(t, Morning, "2024-01-01", Afternoon, "2024-01-05"),
			b:          mustInterval(t, Morning, "2024-01-05", Afternoon, "2024-01-08"),
			intersects: true,
		},
		{
			name:       "shared day split morning then afternoon",
			a:          mustInterval(t, Morning, "2024-01-01", Morning, "2024-01-03"),
			b:          mustInterval(t, Afternoon, "2024-01-03", Afternoon, "2024-01-05"),
			intersects: false,
		},
		{
			name:       "shared day both claim the afternoon",
			a:          mustInterval(t, Morning, "2024-01-01", Afternoon, "2024-01-03"),
			b:          mustInterval(t, Afternoon, "2024-01-03", Afternoon, "2024-01-05"),
			intersects: true,
		},
		{
			name:       "shared day afternoon end meets morning start",
			a:          mustInterval(t, Morning, "2024-01-01", Afternoon, "2024-01-03"),
			b:          mustInterval(t, Morning, "2024-01-03", Afternoon, "2024-01-05"),
			intersects: true,
		},
		{
			name:       "back to back whole days",
			a:          mustInterval(t, Morning, "2024-01-01", Afternoon, "2024-01-02"),
			b:          mustInterval(t, Morning, "2024-01-03", Afternoon, "2024-01-04"),
			intersects: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.intersects, tt.a.Intersects(tt.b))

			// the predicate is commutative, both orders must agree
			assert.Equal(t, tt.a.Compatible(tt.b), tt.b.Compatible(tt.a))
			assert.Equal(t, tt.intersects, tt.b.Intersects(tt.a))
		})
	}
}

func TestIntervalIntersectsItself(t *testing.T) {
	iv := mustInterval(t, Morning, "2024-01-01", Afternoon, "2024-01-02")
	assert.True(t, iv.Intersects(iv))

	single := mustInterval(t, Afternoon, "2024-01-01", Afternoon, "2024-01-02")
	assert.True(t, single.Intersects(single))
}

func TestIntervalFromPartsValidates(t *testing.T) {
	ok := mustInterval(t, Morning, "2024-03-01", Afternoon, "2024-03-05")

	rebuilt, err := IntervalFromParts(ok.StartDay(), ok.StartPeriod(), ok.EndDay(), ok.EndPeriod())
	require.NoError(t, err)
	assert.Equal(t, ok, rebuilt)

	_, err = IntervalFromParts(ok.EndDay(), Morning, ok.StartDay(), Afternoon)
	assert.ErrorIs(t, err, ErrInvertedRange)

	_, err = IntervalFromParts(ok.StartDay(), Afternoon, ok.StartDay(), Morning)
	var sameDay *SameDayError
	assert.True(t, errors.As(err, &sameDay))
}
