package geo

import (
	"context"
	"fmt"

	"visit-route-service/internal/domain"
)

// Table-backed geocoder for tests.
type MockGeocoder struct {
	m map[string]domain.Coordinates
}

func NewMockGeocoder(coords map[string]domain.Coordinates) *MockGeocoder {
	return &MockGeocoder{m: coords}
}

func (g *MockGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinates, error) {
	c, ok := g.m[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("no geocode result for %q", address)
	}
	return c, nil
}
