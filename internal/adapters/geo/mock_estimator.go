package geo

import (
	"context"
	"fmt"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

type MockLeg struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// Pair-table estimator for tests. Unknown legs are an error so tests notice
// missing fixtures instead of silently planning over zero-cost edges.
type MockEstimator struct {
	m     map[string]ports.EstimateResult
	calls int
}

func NewMockEstimator(legs []MockLeg) *MockEstimator {
	m := make(map[string]ports.EstimateResult, len(legs))
	for _, l := range legs {
		m[l.From.Key()+"|"+l.To.Key()] = ports.EstimateResult{DistanceMeters: l.Meters, DurationSeconds: l.Seconds}
	}
	return &MockEstimator{m: m}
}

func (e *MockEstimator) Estimate(ctx context.Context, from, to domain.Coordinates) (ports.EstimateResult, error) {
	e.calls++
	r, ok := e.m[from.Key()+"|"+to.Key()]
	if !ok {
		return ports.EstimateResult{}, fmt.Errorf("missing leg %s -> %s", from.Key(), to.Key())
	}
	return r, nil
}

// Calls reports how many estimates were requested, for caching assertions.
func (e *MockEstimator) Calls() int { return e.calls }
