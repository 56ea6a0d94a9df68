package services

import (
	"visit-route-service/internal/adapters/geo"
	"visit-route-service/internal/domain"
)

// Test geography: stops sit on a line at integer longitudes, and travel
// between them costs 100 seconds and 1000 meters per unit of separation.
func lineCoord(x float64) domain.Coordinates {
	return domain.Coordinates{Lon: x, Lat: 0}
}

func lineStop(address string, x float64, kind domain.StopKind, priority domain.Priority) *domain.Stop {
	s := domain.NewStop(address, kind, priority)
	c := lineCoord(x)
	s.Coord = &c
	return s
}

func lineEstimator(xs ...float64) *geo.MockEstimator {
	legs := make([]geo.MockLeg, 0, len(xs)*len(xs))
	for _, a := range xs {
		for _, b := range xs {
			if a == b {
				continue
			}
			d := a - b
			if d < 0 {
				d = -d
			}
			legs = append(legs, geo.MockLeg{
				From:    lineCoord(a),
				To:      lineCoord(b),
				Meters:  int(d * 1000),
				Seconds: int(d * 100),
			})
		}
	}
	return geo.NewMockEstimator(legs)
}

func addresses(stops []*domain.Stop) []string {
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		out = append(out, s.Address)
	}
	return out
}
