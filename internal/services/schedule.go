package services

import (
	"context"
	"time"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

// ScheduleDay converts an ordered stop list into a timed itinerary.
//
// Segment 0 (the start stop) departs at startAt. For every leg the travel
// time and distance come from the estimator; arrival at the next stop is the
// departure plus travel, and the next stop's own departure adds the dwell
// time (dwell is charged at arrival, not departure). The final segment keeps
// a departure time, the moment its visit ends, but no outbound travel fields.
//
// Output is deterministic: identical inputs and estimator responses produce
// an identical Day. An estimator failure surfaces as a SchedulingError
// carrying the partial day built so far; no default duration is substituted.
func ScheduleDay(
	ctx context.Context,
	start *domain.Stop,
	ordered []*domain.Stop,
	startAt time.Time,
	cons domain.Constraints,
	estimator ports.Estimator,
) (*domain.Day, error) {
	cons = cons.Normalize()

	stops := make([]*domain.Stop, 0, 1+len(ordered))
	stops = append(stops, start)
	stops = append(stops, ordered...)

	day := &domain.Day{
		Segments: make([]domain.Segment, 0, len(stops)),
		Empty:    len(ordered) == 0,
	}

	departAt := startAt
	for i, stop := range stops {
		seg := domain.Segment{
			Stop:     stop,
			Position: i,
			DepartAt: departAt,
		}

		if i == len(stops)-1 {
			day.Segments = append(day.Segments, seg)
			break
		}

		next := stops[i+1]
		if stop.Coord == nil {
			return nil, &domain.MissingCoordinateError{Address: stop.Address}
		}
		if next.Coord == nil {
			return nil, &domain.MissingCoordinateError{Address: next.Address}
		}

		leg, err := estimator.Estimate(ctx, *stop.Coord, *next.Coord)
		if err != nil {
			day.RecomputeTotals()
			return nil, &domain.SchedulingError{
				From:    stop,
				To:      next,
				Partial: day,
				Err:     &domain.EstimationError{From: *stop.Coord, To: *next.Coord, Err: err},
			}
		}

		seg.TravelSecondsToNext = leg.DurationSeconds
		seg.DistanceMetersToNext = leg.DistanceMeters
		seg.ArriveNextAt = departAt.Add(time.Duration(leg.DurationSeconds) * time.Second)
		day.Segments = append(day.Segments, seg)

		departAt = seg.ArriveNextAt.Add(cons.StopDwell)
	}

	day.RecomputeTotals()
	return day, nil
}
