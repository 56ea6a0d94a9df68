package ports

import (
	"context"

	"visit-route-service/internal/domain"
)

// Travel distance and duration between two coordinates.
type EstimateResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for estimating travel cost between two coordinates.
type Estimator interface {
	// Return travel distance and estimated duration for one leg.
	Estimate(ctx context.Context, from, to domain.Coordinates) (EstimateResult, error)
}

// Optional extension of Estimator that supports batched lookups.
type MatrixEstimator interface {
	Estimator
	// Return estimates from one origin to many destinations, in input order.
	EstimateMany(ctx context.Context, from domain.Coordinates, to []domain.Coordinates) ([]EstimateResult, error)
}
