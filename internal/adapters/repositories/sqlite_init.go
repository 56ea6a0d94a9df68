package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"visit-route-service/internal/domain"
)

// Initialize the SQLite database schema (stops plus both local caches).
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		kind TEXT NOT NULL,
		priority TEXT NOT NULL
	);
	`

	createEstimateCacheQuery := `
	CREATE TABLE IF NOT EXISTS estimate_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_estimate_cache_destination_origin
    ON estimate_cache(destination, origin);
	`

	statements := []string{
		createStopsQuery,
		createEstimateCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StopSeed struct {
	Address  string `json:"address"`
	Kind     string `json:"kind"`
	Priority string `json:"priority"`
}

// Populate the database with stop data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed stops: read %q: %w", jsonPath, err)
	}

	var data []StopSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed stops: parse json: %w", err)
	}

	stops := make([]*domain.Stop, 0, len(data))
	for i, item := range data {
		addr := strings.TrimSpace(item.Address)
		if addr == "" {
			return fmt.Errorf("seed stops: item at index %d: address cannot be empty", i+1)
		}

		kind := domain.StopKind(strings.ToLower(strings.TrimSpace(item.Kind)))
		if kind != domain.KindStart && kind != domain.KindDestination {
			return fmt.Errorf("seed stops: item at index %d: unknown kind %q", i+1, item.Kind)
		}

		priority, err := domain.ParsePriority(item.Priority)
		if err != nil {
			return fmt.Errorf("seed stops: item at index %d: %w", i+1, err)
		}

		stops = append(stops, domain.NewStop(addr, kind, priority))
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Seeding replaces the stored stop set wholesale.
	if _, err := tx.Exec(`DELETE FROM stops;`); err != nil {
		return fmt.Errorf("seed stops: clear stops: %w", err)
	}

	query := `
	INSERT INTO stops (
		stop_id,
		address,
		kind,
		priority
	)
	VALUES (?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stops {
		if _, err := stmt.Exec(s.ID.String(), s.Address, string(s.Kind), string(s.Priority)); err != nil {
			return fmt.Errorf("seed stops: insert %q: %w", s.Address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stops: commit tx: %w", err)
	}

	return nil
}

// parseStopID tolerates legacy non-UUID ids by minting a fresh one.
func parseStopID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.New()
	}
	return id
}
