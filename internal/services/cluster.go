package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

// ClusterStops partitions destination stops into day-sized groups.
//
// Stops are walked in priority order (urgent first, ties keep input order)
// and accumulated into the current cluster until either the stop-count limit
// is reached or the running estimated duration, dwell time included, would
// exceed the daily budget. The start stop is conceptually prepended to every
// cluster for duration estimation but is never a cluster member.
//
// Every input stop lands in exactly one cluster. A single stop whose
// dwell+travel alone exceeds the daily budget still becomes its own cluster.
func ClusterStops(
	ctx context.Context,
	start *domain.Stop,
	stops []*domain.Stop,
	cons domain.Constraints,
	estimator ports.Estimator,
) ([][]*domain.Stop, error) {
	cons = cons.Normalize()

	if start == nil || start.Coord == nil {
		addr := ""
		if start != nil {
			addr = start.Address
		}
		return nil, &domain.MissingCoordinateError{Address: addr}
	}
	for _, s := range stops {
		if s.Coord == nil {
			return nil, &domain.MissingCoordinateError{Address: s.Address}
		}
	}

	if len(stops) == 0 {
		return [][]*domain.Stop{}, nil
	}

	// Priority-sorted walk; the stable sort keeps original input order
	// within the same priority.
	ordered := slices.Clone(stops)
	slices.SortStableFunc(ordered, func(a, b *domain.Stop) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})

	dwell := cons.StopDwell
	budget := cons.MaxDayDuration

	clusters := make([][]*domain.Stop, 0, 1)
	current := make([]*domain.Stop, 0, cons.MaxStopsPerDay)
	running := time.Duration(0)
	location := *start.Coord

	closeDay := func() {
		clusters = append(clusters, current)
		current = make([]*domain.Stop, 0, cons.MaxStopsPerDay)
		running = 0
		location = *start.Coord
	}

	for _, stop := range ordered {
		if len(current) >= cons.MaxStopsPerDay {
			closeDay()
		}

		leg, err := estimator.Estimate(ctx, location, *stop.Coord)
		if err != nil {
			return nil, fmt.Errorf("cluster stops: %w", &domain.EstimationError{From: location, To: *stop.Coord, Err: err})
		}

		cost := time.Duration(leg.DurationSeconds)*time.Second + dwell
		if len(current) > 0 && running+cost > budget {
			closeDay()

			// Re-estimate the leg from the start of the fresh day.
			leg, err = estimator.Estimate(ctx, location, *stop.Coord)
			if err != nil {
				return nil, fmt.Errorf("cluster stops: %w", &domain.EstimationError{From: location, To: *stop.Coord, Err: err})
			}
			cost = time.Duration(leg.DurationSeconds)*time.Second + dwell
		}

		// An oversized first stop of a day is kept anyway; stops are
		// never dropped.
		current = append(current, stop)
		running += cost
		location = *stop.Coord
	}

	if len(current) > 0 {
		clusters = append(clusters, current)
	}

	return clusters, nil
}
