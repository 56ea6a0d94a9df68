package ports

import (
	"context"

	"visit-route-service/internal/domain"
)

// Contract for reducing an address string to a coordinate.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (domain.Coordinates, error)
}
