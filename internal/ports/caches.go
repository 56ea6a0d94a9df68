package ports

import (
	"context"

	"visit-route-service/internal/domain"
)

// Persistent cache mapping normalized addresses to coordinates.
// GetMany returns only the hits; misses are simply absent from the map.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, coords map[string]domain.Coordinates) error
}

// Persistent cache for origin->destination travel estimates.
// Keys are coordinate keys (domain.Coordinates.Key).
type EstimateCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]EstimateResult, error)
	PutMany(ctx context.Context, origin string, results map[string]EstimateResult) error
}
