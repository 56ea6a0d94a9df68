package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-service/internal/domain"
)

func TestHaversineEstimateKnownDistance(t *testing.T) {
	e := &HaversineEstimator{RoadFactor: 1, SpeedKPH: 60}

	// One degree of latitude along a meridian is about 111.2 km.
	got, err := e.Estimate(context.Background(),
		domain.Coordinates{Lon: 0, Lat: 0},
		domain.Coordinates{Lon: 0, Lat: 1},
	)
	require.NoError(t, err)

	assert.InDelta(t, 111195, got.DistanceMeters, 50)
	// At 60 kph a kilometer takes a minute.
	assert.InDelta(t, got.DistanceMeters*6/100, got.DurationSeconds, 2)
}

func TestHaversineRoadFactorScalesDistance(t *testing.T) {
	ctx := context.Background()
	from := domain.Coordinates{Lon: 2.35, Lat: 48.85}
	to := domain.Coordinates{Lon: 2.29, Lat: 48.86}

	straight, err := (&HaversineEstimator{RoadFactor: 1, SpeedKPH: 50}).Estimate(ctx, from, to)
	require.NoError(t, err)

	road, err := NewHaversineEstimator().Estimate(ctx, from, to)
	require.NoError(t, err)

	assert.InDelta(t, float64(straight.DistanceMeters)*1.3, float64(road.DistanceMeters), 2)
	assert.Greater(t, road.DurationSeconds, straight.DurationSeconds)
}

func TestHaversineZeroDistance(t *testing.T) {
	c := domain.Coordinates{Lon: 2.35, Lat: 48.85}

	got, err := NewHaversineEstimator().Estimate(context.Background(), c, c)
	require.NoError(t, err)

	assert.Zero(t, got.DistanceMeters)
	assert.Zero(t, got.DurationSeconds)
}
