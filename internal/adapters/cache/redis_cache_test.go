package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)

	store, err := NewRedisStore(mr.Addr(), "", 0, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewRedisGeocodeCache(newTestStore(t))

	coords := map[string]domain.Coordinates{
		"12 Main St": {Lon: 2.35, Lat: 48.85},
		"99 Oak Ave": {Lon: -0.12, Lat: 51.5},
		"":           {Lon: 9, Lat: 9}, // blank keys are dropped
	}
	require.NoError(t, c.PutMany(ctx, coords))

	got, err := c.GetMany(ctx, []string{"12 Main St", "99 Oak Ave", "", "unknown"})
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.Coordinates{
		"12 Main St": {Lon: 2.35, Lat: 48.85},
		"99 Oak Ave": {Lon: -0.12, Lat: 51.5},
	}, got)
}

func TestRedisGeocodeCacheMissIsNotAnError(t *testing.T) {
	c := NewRedisGeocodeCache(newTestStore(t))

	got, err := c.GetMany(context.Background(), []string{"never stored"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisEstimateCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewRedisEstimateCache(newTestStore(t))

	origin := "2.350000,48.850000"
	results := map[string]ports.EstimateResult{
		"2.360000,48.860000": {DistanceMeters: 1500, DurationSeconds: 240},
		"2.370000,48.870000": {DistanceMeters: 3100, DurationSeconds: 510},
	}
	require.NoError(t, c.PutMany(ctx, origin, results))

	got, err := c.GetMany(ctx, origin, []string{
		"2.360000,48.860000",
		"2.370000,48.870000",
		"2.990000,48.990000",
	})
	require.NoError(t, err)
	assert.Equal(t, results, got)

	// Entries are keyed per origin; a different origin sees nothing.
	other, err := c.GetMany(ctx, "0.000000,0.000000", []string{"2.360000,48.860000"})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRedisStoreEntriesExpire(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(mr.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c := NewRedisGeocodeCache(store)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"12 Main St": {Lon: 1, Lat: 2},
	}))

	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, []string{"12 Main St"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
