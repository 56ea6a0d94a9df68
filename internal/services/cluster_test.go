package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-service/internal/domain"
)

func TestClusterStopsUrgentFirstUnderStopLimit(t *testing.T) {
	start := lineStop("100 Main St", 0, domain.KindStart, domain.PriorityNormal)
	d1 := lineStop("D1", 1, domain.KindDestination, domain.PriorityNormal)
	d2 := lineStop("D2", 2, domain.KindDestination, domain.PriorityUrgent)
	d3 := lineStop("D3", 3, domain.KindDestination, domain.PriorityNormal)

	cons := domain.Constraints{MaxStopsPerDay: 2}
	est := lineEstimator(0, 1, 2, 3)

	clusters, err := ClusterStops(context.Background(), start, []*domain.Stop{d1, d2, d3}, cons, est)
	require.NoError(t, err)

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"D2", "D1"}, addresses(clusters[0]))
	assert.Equal(t, []string{"D3"}, addresses(clusters[1]))
}

func TestClusterStopsCoversEveryStopExactlyOnce(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)

	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	stops := make([]*domain.Stop, 0, 7)
	for i := 1; i < len(xs); i++ {
		priority := domain.PriorityNormal
		if i%3 == 0 {
			priority = domain.PriorityUrgent
		}
		stops = append(stops, lineStop(string(rune('A'+i-1)), xs[i], domain.KindDestination, priority))
	}

	cons := domain.Constraints{MaxStopsPerDay: 3}
	clusters, err := ClusterStops(context.Background(), start, stops, cons, lineEstimator(xs...))
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, cluster := range clusters {
		assert.LessOrEqual(t, len(cluster), 3)
		for _, s := range cluster {
			seen[s.Address]++
		}
	}

	require.Len(t, seen, len(stops))
	for _, s := range stops {
		assert.Equal(t, 1, seen[s.Address], "stop %s must appear exactly once", s.Address)
	}
}

func TestClusterStopsRespectsDurationBudget(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)
	near := lineStop("near", 1, domain.KindDestination, domain.PriorityNormal)
	far := lineStop("far", 50, domain.KindDestination, domain.PriorityNormal)

	// Budget fits one leg plus dwell, not two: near costs 100s travel +
	// 600s dwell, adding far (4900s travel from near) would overflow.
	cons := domain.Constraints{
		MaxStopsPerDay: 10,
		MaxDayDuration: 2000 * time.Second,
		StopDwell:      600 * time.Second,
	}

	clusters, err := ClusterStops(context.Background(), start, []*domain.Stop{near, far}, cons, lineEstimator(0, 1, 50))
	require.NoError(t, err)

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"near"}, addresses(clusters[0]))
	assert.Equal(t, []string{"far"}, addresses(clusters[1]))
}

func TestClusterStopsOversizedStopStillGetsADay(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)
	huge := lineStop("huge", 1000, domain.KindDestination, domain.PriorityNormal)

	// 100000s travel alone dwarfs the 1h budget.
	cons := domain.Constraints{MaxStopsPerDay: 4, MaxDayDuration: time.Hour}

	clusters, err := ClusterStops(context.Background(), start, []*domain.Stop{huge}, cons, lineEstimator(0, 1000))
	require.NoError(t, err)

	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"huge"}, addresses(clusters[0]))
}

func TestClusterStopsMissingCoordinate(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)
	unresolved := domain.NewStop("nowhere", domain.KindDestination, domain.PriorityNormal)

	_, err := ClusterStops(context.Background(), start, []*domain.Stop{unresolved}, domain.DefaultConstraints(), lineEstimator(0))
	var misErr *domain.MissingCoordinateError
	require.ErrorAs(t, err, &misErr)
	assert.Equal(t, "nowhere", misErr.Address)
}

func TestClusterStopsEmptyInput(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)

	clusters, err := ClusterStops(context.Background(), start, nil, domain.DefaultConstraints(), lineEstimator(0))
	require.NoError(t, err)
	assert.Empty(t, clusters)
}
