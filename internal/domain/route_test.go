package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeTotals(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	d := &Day{
		Segments: []Segment{
			{
				DepartAt:             base,
				TravelSecondsToNext:  1200,
				DistanceMetersToNext: 9000,
				ArriveNextAt:         base.Add(20 * time.Minute),
			},
			{
				DepartAt:             base.Add(50 * time.Minute),
				TravelSecondsToNext:  600,
				DistanceMetersToNext: 4000,
				ArriveNextAt:         base.Add(60 * time.Minute),
			},
			{
				DepartAt: base.Add(90 * time.Minute),
			},
		},
	}

	d.RecomputeTotals()

	assert.Equal(t, 90*60, d.TotalDurationSeconds)
	assert.Equal(t, 13000, d.TotalDistanceMeters)
	assert.Equal(t, 2, d.StopCount())
}

func TestRecomputeTotalsEmptyDay(t *testing.T) {
	d := &Day{TotalDurationSeconds: 99, TotalDistanceMeters: 99}
	d.RecomputeTotals()

	assert.Zero(t, d.TotalDurationSeconds)
	assert.Zero(t, d.TotalDistanceMeters)
	assert.Zero(t, d.StopCount())
}

func TestDayShiftString(t *testing.T) {
	assert.Equal(t, "Day 3 becomes Day 1", DayShift{From: 2, To: 0}.String())
	assert.Equal(t, "Day 1 becomes Day 2", DayShift{From: 0, To: 1}.String())
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{
		"urgent": PriorityUrgent,
		" High ": PriorityHigh,
		"NORMAL": PriorityNormal,
		"":       PriorityNormal,
	} {
		got, err := ParsePriority(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParsePriority("asap")
	assert.Error(t, err)
}

func TestNewStopNormalizesAddress(t *testing.T) {
	s := NewStop("  12   Main\tSt  ", KindDestination, "")

	assert.Equal(t, "12 Main St", s.Address)
	assert.Equal(t, PriorityNormal, s.Priority)
	assert.NotEqual(t, s.ID, NewStop("x", KindDestination, "").ID)
}
