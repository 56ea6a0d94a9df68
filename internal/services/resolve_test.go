package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-service/internal/adapters/geo"
	"visit-route-service/internal/domain"
)

func TestResolveStopsFillsMissingCoordinates(t *testing.T) {
	stops := []*domain.Stop{
		domain.NewStop("HQ", domain.KindStart, domain.PriorityNormal),
		domain.NewStop("D1", domain.KindDestination, domain.PriorityNormal),
		domain.NewStop("D2", domain.KindDestination, domain.PriorityUrgent),
	}

	geocoder := geo.NewMockGeocoder(map[string]domain.Coordinates{
		"HQ": lineCoord(0),
		"D1": lineCoord(1),
		"D2": lineCoord(2),
	})

	require.NoError(t, ResolveStops(context.Background(), stops, geocoder))

	for _, s := range stops {
		require.NotNil(t, s.Coord, "stop %s must be resolved", s.Address)
	}
	assert.Equal(t, lineCoord(2), *stops[2].Coord)
}

func TestResolveStopsSkipsAlreadyResolved(t *testing.T) {
	resolved := lineStop("cached", 5, domain.KindDestination, domain.PriorityNormal)

	// The geocoder knows nothing; a lookup for the resolved stop would fail.
	geocoder := geo.NewMockGeocoder(nil)

	require.NoError(t, ResolveStops(context.Background(), []*domain.Stop{resolved}, geocoder))
	assert.Equal(t, lineCoord(5), *resolved.Coord)
}

func TestResolveStopsFailsWholeBatch(t *testing.T) {
	stops := []*domain.Stop{
		domain.NewStop("known", domain.KindStart, domain.PriorityNormal),
		domain.NewStop("unknown", domain.KindDestination, domain.PriorityNormal),
	}

	geocoder := geo.NewMockGeocoder(map[string]domain.Coordinates{
		"known": lineCoord(0),
	})

	err := ResolveStops(context.Background(), stops, geocoder)
	var resErr *domain.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "unknown", resErr.Address)
}
