package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

// Concurrency cap for address resolution; geocoders tend to rate limit.
const resolveConcurrency = 5

// ResolveStops fills in the coordinate of every stop that does not have one
// yet, issuing one resolution request per stop concurrently and waiting for
// all of them. A stop is geocoded at most once: stops that already carry a
// coordinate are skipped.
//
// A single resolution failure fails the whole batch; no stop list with holes
// is ever handed to the clusterer. Callers wanting partial-success behavior
// must filter unresolved stops out before planning.
func ResolveStops(ctx context.Context, stops []*domain.Stop, geocoder ports.Geocoder) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for _, stop := range stops {
		if stop.Coord != nil {
			continue
		}
		stop := stop

		g.Go(func() error {
			coord, err := geocoder.Resolve(gctx, stop.Address)
			if err != nil {
				return &domain.ResolutionError{Address: stop.Address, Err: err}
			}

			// Each goroutine writes a distinct stop; no locking needed.
			stop.Coord = &coord
			return nil
		})
	}

	return g.Wait()
}
