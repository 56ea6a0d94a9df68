package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/platform/obs"
	"visit-route-service/internal/ports"
)

// ORSEstimator answers travel estimates from the OpenRouteService matrix
// endpoint, with a persistent cache keyed by coordinate pairs.
type ORSEstimator struct {
	client *orsClient
	cache  ports.EstimateCache
}

func NewORSEstimator(apiKey string, cache ports.EstimateCache) (*ORSEstimator, error) {
	client, err := newORSClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("new ORS estimator: %w", err)
	}
	return &ORSEstimator{client: client, cache: cache}, nil
}

// Delegate to the batched path to reuse caching and matrix logic.
func (e *ORSEstimator) Estimate(ctx context.Context, from, to domain.Coordinates) (ports.EstimateResult, error) {
	results, err := e.EstimateMany(ctx, from, []domain.Coordinates{to})
	if err != nil {
		return ports.EstimateResult{}, err
	}
	return results[0], nil
}

// EstimateMany computes estimates from one origin to many destinations,
// fetching a single origin->many matrix row for all cache misses.
func (e *ORSEstimator) EstimateMany(ctx context.Context, from domain.Coordinates, to []domain.Coordinates) (_ []ports.EstimateResult, err error) {
	defer obs.Time(ctx, "ors.EstimateMany")(&err)

	if len(to) == 0 {
		return []ports.EstimateResult{}, nil
	}

	originKey := from.Key()
	destKeys := make([]string, len(to))
	for i, c := range to {
		destKeys[i] = c.Key()
	}

	hits := make(map[string]ports.EstimateResult)
	if e.cache != nil {
		hits, err = e.cache.GetMany(ctx, originKey, destKeys)
		if err != nil {
			return nil, fmt.Errorf("estimate cache: %w", err)
		}
	}

	missIdx := make([]int, 0, len(to))
	missCoords := make([]domain.Coordinates, 0, len(to))
	for i, k := range destKeys {
		if _, ok := hits[k]; !ok {
			missIdx = append(missIdx, i)
			missCoords = append(missCoords, to[i])
		}
	}

	if len(missCoords) > 0 {
		fetched, err := e.fetchMatrixRow(ctx, from, missCoords)
		if err != nil {
			return nil, &domain.EstimationError{From: from, To: missCoords[0], Err: err}
		}

		fresh := make(map[string]ports.EstimateResult, len(fetched))
		for i, r := range fetched {
			key := missCoords[i].Key()
			hits[key] = r
			fresh[key] = r
		}

		if e.cache != nil {
			if err := e.cache.PutMany(ctx, originKey, fresh); err != nil {
				log.Printf("estimate cache write failed: %v", err)
			}
		}
	}

	out := make([]ports.EstimateResult, len(to))
	for i, k := range destKeys {
		r, ok := hits[k]
		if !ok {
			return nil, fmt.Errorf("missing estimate for %s -> %s", originKey, k)
		}
		out[i] = r
	}

	return out, nil
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

func (e *ORSEstimator) fetchMatrixRow(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) ([]ports.EstimateResult, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", e.client.baseURL, e.client.profile)

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, origin.CoordsToList())
	for _, c := range destinations {
		locations = append(locations, c.CoordsToList())
	}

	destIdx := make([]int, 0, len(destinations))
	for i := 1; i < len(locations); i++ {
		destIdx = append(destIdx, i)
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := e.client.doWithRetry(ctx, func() (*http.Request, error) {
		return e.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}

	rowDistances := mr.Distances[0]
	rowDurations := mr.Durations[0]

	if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDistances), len(rowDurations), len(destinations),
		)
	}

	out := make([]ports.EstimateResult, len(destinations))
	for i := range destinations {
		metersPtr := rowDistances[i]
		secondsPtr := rowDurations[i]

		if metersPtr == nil || secondsPtr == nil {
			return nil, fmt.Errorf("matrix returned invalid metrics for destination %d", i)
		}

		// ORS returns float metrics; round to nearest integer for domain consistency.
		out[i] = ports.EstimateResult{
			DistanceMeters:  int(math.Round(*metersPtr)),
			DurationSeconds: int(math.Round(*secondsPtr)),
		}
	}

	return out, nil
}
