package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-service/internal/adapters/geo"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

func TestOrderTourImprovesOnInputOrder(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)
	a := lineStop("A", 1, domain.KindDestination, domain.PriorityNormal)
	b := lineStop("B", 2, domain.KindDestination, domain.PriorityNormal)
	c := lineStop("C", 3, domain.KindDestination, domain.PriorityNormal)

	est := lineEstimator(0, 1, 2, 3)

	// Deliberately scrambled input order.
	ordered, err := OrderTour(context.Background(), start, []*domain.Stop{b, c, a}, domain.DefaultConstraints(), est)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, addresses(ordered))
}

func TestOrderTourOutputIsPermutation(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)

	xs := []float64{0, 7, 2, 9, 4, 1}
	cluster := make([]*domain.Stop, 0, 5)
	for i := 1; i < len(xs); i++ {
		cluster = append(cluster, lineStop(string(rune('A'+i-1)), xs[i], domain.KindDestination, domain.PriorityNormal))
	}

	ordered, err := OrderTour(context.Background(), start, cluster, domain.DefaultConstraints(), lineEstimator(xs...))
	require.NoError(t, err)

	require.Len(t, ordered, len(cluster))
	seen := make(map[string]bool)
	for _, s := range ordered {
		assert.False(t, seen[s.Address], "stop %s appears twice", s.Address)
		seen[s.Address] = true
	}
	for _, s := range cluster {
		assert.True(t, seen[s.Address], "stop %s was dropped", s.Address)
	}
}

func TestOrderTourNeverCostsMoreThanIdentity(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)

	xs := []float64{0, 5, 1, 8, 3}
	cluster := make([]*domain.Stop, 0, 4)
	for i := 1; i < len(xs); i++ {
		cluster = append(cluster, lineStop(string(rune('A'+i-1)), xs[i], domain.KindDestination, domain.PriorityNormal))
	}

	est := lineEstimator(xs...)
	ordered, err := OrderTour(context.Background(), start, cluster, domain.DefaultConstraints(), est)
	require.NoError(t, err)

	identity := tourSeconds(t, est, start, cluster)
	improved := tourSeconds(t, est, start, ordered)
	assert.LessOrEqual(t, improved, identity)
}

func TestOrderTourAsymmetricCostsNeverExceedIdentity(t *testing.T) {
	start := lineStop("S", 0, domain.KindStart, domain.PriorityNormal)
	a := lineStop("A", 1, domain.KindDestination, domain.PriorityNormal)
	b := lineStop("B", 2, domain.KindDestination, domain.PriorityNormal)
	c := lineStop("C", 3, domain.KindDestination, domain.PriorityNormal)

	// One-way costs differ per direction. The greedy walk picks S,B,C,A
	// (cheapest outgoing leg at every step, total 140) and no single
	// segment reversal of that tour costs less, yet visiting the cluster
	// as given costs 50.
	leg := func(from, to float64, seconds int) geo.MockLeg {
		return geo.MockLeg{From: lineCoord(from), To: lineCoord(to), Meters: seconds, Seconds: seconds}
	}
	est := geo.NewMockEstimator([]geo.MockLeg{
		leg(0, 1, 20), leg(0, 2, 10), leg(0, 3, 30),
		leg(1, 0, 100), leg(1, 2, 10), leg(1, 3, 200),
		leg(2, 0, 80), leg(2, 1, 50), leg(2, 3, 10),
		leg(3, 0, 10), leg(3, 1, 20), leg(3, 2, 100),
	})

	cluster := []*domain.Stop{a, b, c}
	ordered, err := OrderTour(context.Background(), start, cluster, domain.DefaultConstraints(), est)
	require.NoError(t, err)

	identity := tourSeconds(t, est, start, cluster)
	improved := tourSeconds(t, est, start, ordered)
	assert.LessOrEqual(t, improved, identity)
	assert.Equal(t, []string{"A", "B", "C"}, addresses(ordered))
}

func tourSeconds(t *testing.T, est ports.Estimator, start *domain.Stop, stops []*domain.Stop) int {
	t.Helper()
	total := 0
	prev := *start.Coord
	for _, s := range stops {
		leg, err := est.Estimate(context.Background(), prev, *s.Coord)
		require.NoError(t, err)
		total += leg.DurationSeconds
		prev = *s.Coord
	}
	back, err := est.Estimate(context.Background(), prev, *start.Coord)
	require.NoError(t, err)
	return total + back.DurationSeconds
}

func TestOrderTourUrgentBreaksTies(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)
	// Equidistant stops on either side of the start.
	normal := lineStop("normal", 2, domain.KindDestination, domain.PriorityNormal)
	urgent := lineStop("urgent", -2, domain.KindDestination, domain.PriorityUrgent)

	est := lineEstimator(-2, 0, 2)
	ordered, err := OrderTour(context.Background(), start, []*domain.Stop{normal, urgent}, domain.DefaultConstraints(), est)
	require.NoError(t, err)

	assert.Equal(t, []string{"urgent", "normal"}, addresses(ordered))
}

func TestOrderTourRevenueWeightPullsUrgentCloser(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)
	near := lineStop("near", 1, domain.KindDestination, domain.PriorityNormal)
	// Slightly farther, but worth three times as much.
	valuable := lineStop("valuable", 2, domain.KindDestination, domain.PriorityUrgent)

	cons := domain.Constraints{Optimize: domain.OptimizeRevenue}
	est := lineEstimator(0, 1, 2)

	ordered, err := OrderTour(context.Background(), start, []*domain.Stop{near, valuable}, cons, est)
	require.NoError(t, err)

	assert.Equal(t, "valuable", ordered[0].Address)
}

func TestOrderTourEmptyCluster(t *testing.T) {
	start := lineStop("HQ", 0, domain.KindStart, domain.PriorityNormal)

	ordered, err := OrderTour(context.Background(), start, nil, domain.DefaultConstraints(), lineEstimator(0))
	require.NoError(t, err)
	assert.Empty(t, ordered)
}
