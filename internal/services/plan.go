package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

type PlanVisitsRequest struct {
	// Stops holds exactly one start stop and at least one destination.
	Stops       []*domain.Stop
	Constraints domain.Constraints
	// DayStartAt is the clock time each day's first segment departs.
	DayStartAt time.Time
}

// PlanVisits runs the full planning pipeline: validate the stop set, resolve
// coordinates concurrently, partition destinations into day clusters, order
// each cluster's tour, and attach a time schedule to every day.
//
// Clustering, ordering, and scheduling are pure over their inputs plus
// estimator queries; all configuration arrives in the request.
func PlanVisits(
	ctx context.Context,
	req PlanVisitsRequest,
	geocoder ports.Geocoder,
	estimator ports.Estimator,
) (*domain.Route, error) {
	start, destinations, err := splitStops(req.Stops)
	if err != nil {
		return nil, fmt.Errorf("plan visits: %w", err)
	}

	cons := req.Constraints.Normalize()

	if err := ResolveStops(ctx, req.Stops, geocoder); err != nil {
		return nil, fmt.Errorf("plan visits: %w", err)
	}

	clusters, err := ClusterStops(ctx, start, destinations, cons, estimator)
	if err != nil {
		return nil, fmt.Errorf("plan visits: %w", err)
	}

	days := make([]*domain.Day, 0, len(clusters))
	for i, cluster := range clusters {
		ordered, err := OrderTour(ctx, start, cluster, cons, estimator)
		if err != nil {
			return nil, fmt.Errorf("plan visits: day %d: %w", i+1, err)
		}

		day, err := ScheduleDay(ctx, start, ordered, req.DayStartAt, cons, estimator)
		if err != nil {
			return nil, fmt.Errorf("plan visits: day %d: %w", i+1, err)
		}

		day.DayIndex = i
		days = append(days, day)
	}

	return &domain.Route{
		ID:    uuid.New(),
		Start: start,
		Days:  days,
	}, nil
}

// splitStops validates the input stop set: exactly one start, at least one
// destination.
func splitStops(stops []*domain.Stop) (*domain.Stop, []*domain.Stop, error) {
	var start *domain.Stop
	destinations := make([]*domain.Stop, 0, len(stops))

	for _, s := range stops {
		switch s.Kind {
		case domain.KindStart:
			if start != nil {
				return nil, nil, fmt.Errorf("%w: more than one start stop", domain.ErrInsufficientStops)
			}
			start = s
		default:
			destinations = append(destinations, s)
		}
	}

	if start == nil {
		return nil, nil, fmt.Errorf("%w: no start stop", domain.ErrInsufficientStops)
	}
	if len(destinations) == 0 {
		return nil, nil, fmt.Errorf("%w: no destination stops", domain.ErrInsufficientStops)
	}

	return start, destinations, nil
}
