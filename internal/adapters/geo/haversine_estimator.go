package geo

import (
	"context"
	"math"

	"github.com/golang/geo/s2"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

const earthRadiusMeters = 6371000.0

// Deterministic offline estimator: road distance is approximated as the
// great-circle distance scaled by a road factor, and duration follows from
// an average driving speed. Useful as a fallback when no routing API is
// configured, and for reproducible local runs.
type HaversineEstimator struct {
	// RoadFactor inflates the great-circle distance to account for the
	// road network (1.0 = straight line).
	RoadFactor float64
	// SpeedKPH is the assumed average driving speed.
	SpeedKPH float64
}

func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{RoadFactor: 1.3, SpeedKPH: 50}
}

func (e *HaversineEstimator) Estimate(ctx context.Context, from, to domain.Coordinates) (ports.EstimateResult, error) {
	p1 := s2.LatLngFromDegrees(from.Lat, from.Lon)
	p2 := s2.LatLngFromDegrees(to.Lat, to.Lon)

	meters := p1.Distance(p2).Radians() * earthRadiusMeters * e.RoadFactor
	seconds := meters / (e.SpeedKPH * 1000 / 3600)

	return ports.EstimateResult{
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: int(math.Round(seconds)),
	}, nil
}
