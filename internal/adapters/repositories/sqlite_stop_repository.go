package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"visit-route-service/internal/domain"
)

// SQLite-backed implementation of the StopRepository port.
type SqliteStopRepository struct{ DB *sql.DB }

func NewSqliteStopRepository(db *sql.DB) *SqliteStopRepository {
	return &SqliteStopRepository{DB: db}
}

// Return all stops stored in the database, start stop first.
func (s *SqliteStopRepository) ListStops(ctx context.Context) ([]*domain.Stop, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite stop repository: DB is nil")
	}

	query := `
	SELECT
		stop_id,
		address,
		kind,
		priority
	FROM stops
	ORDER BY kind = 'start' DESC, rowid;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]*domain.Stop, 0, 64)
	for rows.Next() {
		var id, addr, kind, priority string
		if err := rows.Scan(&id, &addr, &kind, &priority); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}

		stops = append(stops, &domain.Stop{
			ID:       parseStopID(id),
			Address:  addr,
			Kind:     domain.StopKind(kind),
			Priority: domain.Priority(priority),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}
