package ports

import (
	"context"

	"github.com/google/uuid"

	"visit-route-service/internal/domain"
)

// Port: persistence boundary for produced Routes. Persistence itself is a
// collaborator concern; the engine only hands over completed values.
type RouteRepository interface {
	// Store a route with all of its days and segments.
	SaveRoute(ctx context.Context, route *domain.Route) error
	// Load a stored route. Returns domain.ErrRouteNotFound when absent.
	GetRoute(ctx context.Context, id uuid.UUID) (*domain.Route, error)
	// Overwrite the day sequence of a stored route after a reorder.
	ReplaceDays(ctx context.Context, route *domain.Route) error
}
