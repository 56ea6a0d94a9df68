package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-service/internal/adapters/geo"
	"visit-route-service/internal/domain"
)

func TestPlanVisitsEndToEnd(t *testing.T) {
	stops := []*domain.Stop{
		domain.NewStop("HQ", domain.KindStart, domain.PriorityNormal),
		domain.NewStop("D1", domain.KindDestination, domain.PriorityNormal),
		domain.NewStop("D2", domain.KindDestination, domain.PriorityUrgent),
		domain.NewStop("D3", domain.KindDestination, domain.PriorityNormal),
	}

	geocoder := geo.NewMockGeocoder(map[string]domain.Coordinates{
		"HQ": lineCoord(0),
		"D1": lineCoord(1),
		"D2": lineCoord(2),
		"D3": lineCoord(3),
	})

	startAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	req := PlanVisitsRequest{
		Stops:       stops,
		Constraints: domain.Constraints{MaxStopsPerDay: 2},
		DayStartAt:  startAt,
	}

	route, err := PlanVisits(context.Background(), req, geocoder, lineEstimator(0, 1, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, "HQ", route.Start.Address)
	require.Len(t, route.Days, 2)

	for i, d := range route.Days {
		assert.Equal(t, i, d.DayIndex)
		require.NotEmpty(t, d.Segments)
		assert.Equal(t, "HQ", d.Segments[0].Stop.Address)
		assert.Equal(t, startAt, d.Segments[0].DepartAt)
	}

	// Urgent stop lands on day 0; the leftover normal stop on day 1.
	day0 := addresses(stopsOf(route.Days[0]))
	assert.Contains(t, day0, "D2")
	assert.Equal(t, []string{"D3"}, addresses(stopsOf(route.Days[1])))

	// Every destination appears exactly once across the whole route.
	seen := map[string]int{}
	for _, d := range route.Days {
		for _, s := range stopsOf(d) {
			seen[s.Address]++
		}
	}
	assert.Equal(t, map[string]int{"D1": 1, "D2": 1, "D3": 1}, seen)

	summaries := route.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].StopCount)
	assert.Equal(t, 1, summaries[1].StopCount)
}

func stopsOf(d *domain.Day) []*domain.Stop {
	out := make([]*domain.Stop, 0, len(d.Segments))
	for _, seg := range d.Segments[1:] {
		out = append(out, seg.Stop)
	}
	return out
}

func TestPlanVisitsRequiresStartAndDestination(t *testing.T) {
	geocoder := geo.NewMockGeocoder(nil)
	est := lineEstimator(0)

	cases := map[string][]*domain.Stop{
		"no start": {
			domain.NewStop("D1", domain.KindDestination, domain.PriorityNormal),
		},
		"no destinations": {
			domain.NewStop("HQ", domain.KindStart, domain.PriorityNormal),
		},
		"two starts": {
			domain.NewStop("HQ", domain.KindStart, domain.PriorityNormal),
			domain.NewStop("HQ2", domain.KindStart, domain.PriorityNormal),
			domain.NewStop("D1", domain.KindDestination, domain.PriorityNormal),
		},
	}

	for name, stops := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PlanVisits(context.Background(), PlanVisitsRequest{Stops: stops}, geocoder, est)
			assert.ErrorIs(t, err, domain.ErrInsufficientStops)
		})
	}
}

func TestPlanVisitsResolutionFailureFailsRun(t *testing.T) {
	stops := []*domain.Stop{
		domain.NewStop("HQ", domain.KindStart, domain.PriorityNormal),
		domain.NewStop("nowhere", domain.KindDestination, domain.PriorityNormal),
	}

	geocoder := geo.NewMockGeocoder(map[string]domain.Coordinates{
		"HQ": lineCoord(0),
	})

	_, err := PlanVisits(context.Background(), PlanVisitsRequest{Stops: stops}, geocoder, lineEstimator(0))

	var resErr *domain.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "nowhere", resErr.Address)
}
