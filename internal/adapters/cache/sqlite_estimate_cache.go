package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"visit-route-service/internal/ports"
)

// SQLite backed cache for origin->destination travel estimates. Keys are
// coordinate keys (domain.Coordinates.Key), so cached legs survive address
// re-wording.
type SqliteEstimateCache struct {
	DB *sql.DB
}

func NewSqliteEstimateCache(db *sql.DB) *SqliteEstimateCache {
	return &SqliteEstimateCache{DB: db}
}

// Fetch cached estimates for one origin and multiple destinations.
func (s *SqliteEstimateCache) GetMany(ctx context.Context, origin string, destinations []string) (map[string]ports.EstimateResult, error) {
	if s.DB == nil {
		return nil, errors.New("estimate cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get estimate cache: origin must not be empty")
	}

	if len(destinations) == 0 {
		return map[string]ports.EstimateResult{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(destinations))
	ph := make([]string, 0, len(destinations))
	for _, d := range destinations {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}

		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
		ph = append(ph, "?")
	}

	if len(uniq) == 0 {
		return map[string]ports.EstimateResult{}, nil
	}

	args := make([]any, 0, 1+len(uniq))
	args = append(args, origin)
	for _, d := range uniq {
		args = append(args, d)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        destination,
        distance_meters,
        duration_seconds
    FROM estimate_cache
    WHERE origin = ?
        AND destination IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get estimate cache: query estimate_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.EstimateResult, len(uniq))
	for rows.Next() {
		var dest string
		var meters, seconds int
		if err := rows.Scan(&dest, &meters, &seconds); err != nil {
			return nil, fmt.Errorf("get estimate cache: scan rows: %w", err)
		}
		out[dest] = ports.EstimateResult{
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get estimate cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many cached estimates for a single origin.
func (s *SqliteEstimateCache) PutMany(ctx context.Context, origin string, results map[string]ports.EstimateResult) error {
	if s.DB == nil {
		return errors.New("estimate cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert estimate cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert estimate cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO estimate_cache (
        origin,
        destination,
        distance_meters,
        duration_seconds
    )
    VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert estimate cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert estimate cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("insert estimate cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert estimate cache commit: %w", err)
	}

	return nil
}
