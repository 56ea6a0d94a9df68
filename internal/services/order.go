package services

import (
	"context"
	"fmt"
	"math"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

// Caps the 2-opt improvement passes so pathological clusters cannot spin.
const maxImprovePasses = 64

// Improvements smaller than this are treated as ties.
const costEpsilon = 1e-9

// OrderTour returns the cluster's stops in visiting order, starting from the
// route's start stop and organizationally returning toward it (the return leg
// participates in the cost, so the tour is optimized as a cycle).
//
// The initial order comes from a greedy nearest-neighbor walk; a 2-opt local
// search then reverses sub-sequences while that strictly reduces total cost
// under the configured cost function. The output is always a permutation of
// the input cluster and never costs more than the naive input-order tour.
func OrderTour(
	ctx context.Context,
	start *domain.Stop,
	cluster []*domain.Stop,
	cons domain.Constraints,
	estimator ports.Estimator,
) ([]*domain.Stop, error) {
	cons = cons.Normalize()

	if len(cluster) == 0 {
		return []*domain.Stop{}, nil
	}

	// Node 0 is the start; 1..n-1 are the cluster's stops in input order.
	nodes := make([]*domain.Stop, 0, 1+len(cluster))
	nodes = append(nodes, start)
	nodes = append(nodes, cluster...)

	legs, err := legMatrix(ctx, nodes, estimator)
	if err != nil {
		return nil, fmt.Errorf("order tour: %w", err)
	}

	cost := costFunc(cons.Optimize, nodes, legs)

	// The local search runs from two seeds: the greedy walk and the input
	// order itself. On asymmetric matrices the greedy seed can settle into
	// a local optimum costlier than just visiting the cluster as given, so
	// the input-order seed keeps the result at or below the naive tour.
	tour := improveTour(nearestNeighborTour(nodes, cost), nodes, cost)

	identity := make([]int, len(nodes))
	for i := range identity {
		identity[i] = i
	}
	identity = improveTour(identity, nodes, cost)

	if ic, tc := tourCost(identity, cost), tourCost(tour, cost); ic < tc-costEpsilon ||
		(ic <= tc+costEpsilon && priorityLess(identity, tour, nodes)) {
		tour = identity
	}

	out := make([]*domain.Stop, 0, len(cluster))
	for _, idx := range tour[1:] {
		out = append(out, nodes[idx])
	}
	return out, nil
}

// legMatrix prefetches all pairwise travel estimates for the tour's nodes.
// Batched estimators get one row request per origin.
func legMatrix(ctx context.Context, nodes []*domain.Stop, estimator ports.Estimator) ([][]ports.EstimateResult, error) {
	n := len(nodes)
	coords := make([]domain.Coordinates, n)
	for i, s := range nodes {
		if s == nil || s.Coord == nil {
			addr := ""
			if s != nil {
				addr = s.Address
			}
			return nil, &domain.MissingCoordinateError{Address: addr}
		}
		coords[i] = *s.Coord
	}

	me, hasMatrix := estimator.(ports.MatrixEstimator)

	legs := make([][]ports.EstimateResult, n)
	for i := 0; i < n; i++ {
		legs[i] = make([]ports.EstimateResult, n)

		if hasMatrix {
			targets := make([]domain.Coordinates, 0, n-1)
			targetIdx := make([]int, 0, n-1)
			for j := 0; j < n; j++ {
				if j != i {
					targets = append(targets, coords[j])
					targetIdx = append(targetIdx, j)
				}
			}

			row, err := me.EstimateMany(ctx, coords[i], targets)
			if err != nil {
				return nil, fmt.Errorf("estimate row from %s: %w", coords[i].Key(), err)
			}
			if len(row) != len(targets) {
				return nil, fmt.Errorf("estimate row from %s: got %d results for %d targets", coords[i].Key(), len(row), len(targets))
			}
			for k, j := range targetIdx {
				legs[i][j] = row[k]
			}
			continue
		}

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			r, err := estimator.Estimate(ctx, coords[i], coords[j])
			if err != nil {
				return nil, &domain.EstimationError{From: coords[i], To: coords[j], Err: err}
			}
			legs[i][j] = r
		}
	}

	return legs, nil
}

// costFunc builds the edge cost comparator for the selected optimize mode.
// Revenue weighting divides the edge cost by the destination stop's value
// estimate so high-value stops become cheap to reach early; only the
// comparator changes, never the search itself.
func costFunc(mode domain.OptimizeMode, nodes []*domain.Stop, legs [][]ports.EstimateResult) func(i, j int) float64 {
	switch mode {
	case domain.OptimizeDistance:
		return func(i, j int) float64 { return float64(legs[i][j].DistanceMeters) }
	case domain.OptimizeRevenue:
		return func(i, j int) float64 {
			return float64(legs[i][j].DurationSeconds) / nodes[j].Priority.RevenueWeight()
		}
	default:
		return func(i, j int) float64 { return float64(legs[i][j].DurationSeconds) }
	}
}

// nearestNeighborTour builds the initial visiting order greedily from the
// start node. Ties go to the higher-priority stop, then to input order, so
// the result is deterministic.
func nearestNeighborTour(nodes []*domain.Stop, cost func(i, j int) float64) []int {
	n := len(nodes)
	visited := make([]bool, n)
	visited[0] = true

	tour := make([]int, 0, n)
	tour = append(tour, 0)
	current := 0

	for len(tour) < n {
		best := -1
		bestCost := math.MaxFloat64

		for j := 1; j < n; j++ {
			if visited[j] {
				continue
			}
			c := cost(current, j)
			switch {
			case c < bestCost-costEpsilon:
				best, bestCost = j, c
			case c <= bestCost+costEpsilon && best >= 0 &&
				nodes[j].Priority.Rank() < nodes[best].Priority.Rank():
				best, bestCost = j, c
			}
		}

		visited[best] = true
		tour = append(tour, best)
		current = best
	}

	return tour
}

// improveTour applies 2-opt: it keeps reversing contiguous sub-sequences as
// long as a reversal strictly lowers the tour cost (or matches it while
// visiting urgent stops earlier), up to a fixed pass cap.
func improveTour(tour []int, nodes []*domain.Stop, cost func(i, j int) float64) []int {
	n := len(tour)
	if n < 4 {
		return tour
	}

	best := tour
	bestCost := tourCost(best, cost)

	for pass := 0; pass < maxImprovePasses; pass++ {
		improved := false

		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				candidate := reverseSegment(best, i, k)
				c := tourCost(candidate, cost)

				if c < bestCost-costEpsilon ||
					(c <= bestCost+costEpsilon && priorityLess(candidate, best, nodes)) {
					best = candidate
					bestCost = c
					improved = true
				}
			}
		}

		if !improved {
			break
		}
	}

	return best
}

// tourCost sums all consecutive edges plus the return leg to the start.
func tourCost(tour []int, cost func(i, j int) float64) float64 {
	total := 0.0
	for i := 0; i < len(tour)-1; i++ {
		total += cost(tour[i], tour[i+1])
	}
	total += cost(tour[len(tour)-1], tour[0])
	return total
}

// reverseSegment returns a copy of the tour with positions i..k reversed.
func reverseSegment(tour []int, i, k int) []int {
	out := make([]int, len(tour))
	copy(out, tour[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = tour[j]
		pos++
	}
	copy(out[pos:], tour[k+1:])
	return out
}

// priorityLess reports whether tour a visits high-priority stops earlier
// than tour b (lexicographic comparison of priority ranks).
func priorityLess(a, b []int, nodes []*domain.Stop) bool {
	for i := 1; i < len(a); i++ {
		ra := nodes[a[i]].Priority.Rank()
		rb := nodes[b[i]].Priority.Rank()
		if ra != rb {
			return ra < rb
		}
	}
	return false
}
