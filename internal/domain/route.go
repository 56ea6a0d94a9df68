package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Represents one stop within a day's visiting order, annotated with timing.
// The final segment of a day has a departure time (when the visit would end)
// but no outbound travel fields.
type Segment struct {
	Stop     *Stop
	Position int
	DepartAt time.Time

	// Edge to the next segment. Zero values on the final segment.
	TravelSecondsToNext  int
	DistanceMetersToNext int
	ArriveNextAt         time.Time
}

// Represents a single day's timed itinerary.
// Segment 0 is always the route's start stop; the day conceptually returns
// to the start at its end. Totals are derived from the segments and must be
// recomputed whenever they change.
type Day struct {
	DayIndex int
	Segments []Segment

	// Wall-clock span from the first departure to the last, dwell included.
	TotalDurationSeconds int
	TotalDistanceMeters  int

	// Empty marks a day with no destination stops.
	Empty bool
}

// StopCount returns the number of destination stops (the start is excluded).
func (d *Day) StopCount() int {
	if len(d.Segments) == 0 {
		return 0
	}
	return len(d.Segments) - 1
}

// RecomputeTotals re-derives the day's aggregate metrics from its segments.
func (d *Day) RecomputeTotals() {
	d.TotalDurationSeconds = 0
	d.TotalDistanceMeters = 0
	if len(d.Segments) == 0 {
		return
	}

	first := d.Segments[0].DepartAt
	last := d.Segments[len(d.Segments)-1].DepartAt
	d.TotalDurationSeconds = int(last.Sub(first) / time.Second)

	for _, s := range d.Segments {
		d.TotalDistanceMeters += s.DistanceMetersToNext
	}
}

// Summary projects the day into the record used for calendar rendering.
func (d *Day) Summary() DaySummary {
	return DaySummary{
		DayIndex:             d.DayIndex,
		StopCount:            d.StopCount(),
		TotalDurationSeconds: d.TotalDurationSeconds,
		TotalDistanceMeters:  d.TotalDistanceMeters,
	}
}

// Day-level aggregate for calendar/card rendering.
type DaySummary struct {
	DayIndex             int
	StopCount            int
	TotalDurationSeconds int
	TotalDistanceMeters  int
}

// Represents the full multi-day visiting plan.
// Days[i].DayIndex == i holds at all times; day reordering re-establishes it.
type Route struct {
	ID    uuid.UUID
	Start *Stop
	Days  []*Day
}

// Summaries returns one DaySummary per day, in day order.
func (r *Route) Summaries() []DaySummary {
	out := make([]DaySummary, 0, len(r.Days))
	for _, d := range r.Days {
		out = append(out, d.Summary())
	}
	return out
}

// Records one day's change of position during a reorder,
// using 0-based indexes.
type DayShift struct {
	From int
	To   int
}

// String renders the shift the way it is shown to users (1-based days).
func (s DayShift) String() string {
	return fmt.Sprintf("Day %d becomes Day %d", s.From+1, s.To+1)
}
