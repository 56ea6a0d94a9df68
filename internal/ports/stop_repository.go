package ports

import (
	"context"

	"visit-route-service/internal/domain"
)

// Port: a boundary for retrieving Stop entities from a data source.
type StopRepository interface {
	// Retrieve all stops available for planning.
	ListStops(ctx context.Context) ([]*domain.Stop, error)
}
