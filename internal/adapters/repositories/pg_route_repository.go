package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the RouteRepository port. A stored route
// spans three tables (routes, route_days, route_segments) written in one tx.
type PgRouteRepository struct{ DB *sql.DB }

func NewPgRouteRepository(db *sql.DB) *PgRouteRepository {
	return &PgRouteRepository{DB: db}
}

// Initialize the Postgres schema for stored routes.
func InitRouteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init route schema: DB is nil")
	}

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS routes (
			route_id TEXT PRIMARY KEY,
			start_stop_id TEXT NOT NULL,
			start_address TEXT NOT NULL,
			start_lon DOUBLE PRECISION NOT NULL,
			start_lat DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS route_days (
			route_id TEXT NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
			day_index INTEGER NOT NULL,
			total_duration_seconds INTEGER NOT NULL,
			total_distance_meters INTEGER NOT NULL,
			empty BOOLEAN NOT NULL,
			PRIMARY KEY (route_id, day_index)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS route_segments (
			route_id TEXT NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
			day_index INTEGER NOT NULL,
			position INTEGER NOT NULL,
			stop_id TEXT NOT NULL,
			address TEXT NOT NULL,
			kind TEXT NOT NULL,
			priority TEXT NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			depart_at TIMESTAMPTZ NOT NULL,
			travel_seconds_to_next INTEGER NOT NULL,
			distance_meters_to_next INTEGER NOT NULL,
			arrive_next_at TIMESTAMPTZ,
			PRIMARY KEY (route_id, day_index, position)
		);
		`,
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init route schema: exec statement #%d: %w", i+1, err)
		}
	}

	return nil
}

// Store a route with all of its days and segments, replacing any previous
// version of the same route.
func (r *PgRouteRepository) SaveRoute(ctx context.Context, route *domain.Route) (err error) {
	defer obs.Time(ctx, "routes.SaveRoute")(&err)

	if r.DB == nil {
		return errors.New("route repository: db is nil")
	}
	if route == nil || route.Start == nil || route.Start.Coord == nil {
		return errors.New("save route: route must have a resolved start stop")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save route: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades clear previous days and segments.
	if _, err := tx.ExecContext(ctx, `DELETE FROM routes WHERE route_id = $1;`, route.ID.String()); err != nil {
		return fmt.Errorf("save route: clear previous: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO routes (route_id, start_stop_id, start_address, start_lon, start_lat)
	VALUES ($1, $2, $3, $4, $5);
	`,
		route.ID.String(),
		route.Start.ID.String(),
		route.Start.Address,
		route.Start.Coord.Lon,
		route.Start.Coord.Lat,
	)
	if err != nil {
		return fmt.Errorf("save route: insert route: %w", err)
	}

	if err := insertDays(ctx, tx, route); err != nil {
		return fmt.Errorf("save route: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save route: commit: %w", err)
	}

	return nil
}

// Overwrite the day sequence of a stored route after a reorder.
func (r *PgRouteRepository) ReplaceDays(ctx context.Context, route *domain.Route) (err error) {
	defer obs.Time(ctx, "routes.ReplaceDays")(&err)

	if r.DB == nil {
		return errors.New("route repository: db is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace days: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM route_days WHERE route_id = $1;`, route.ID.String())
	if err != nil {
		return fmt.Errorf("replace days: clear days: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("replace days: %w", domain.ErrRouteNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_segments WHERE route_id = $1;`, route.ID.String()); err != nil {
		return fmt.Errorf("replace days: clear segments: %w", err)
	}

	if err := insertDays(ctx, tx, route); err != nil {
		return fmt.Errorf("replace days: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace days: commit: %w", err)
	}

	return nil
}

func insertDays(ctx context.Context, tx *sql.Tx, route *domain.Route) error {
	dayStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_days (route_id, day_index, total_duration_seconds, total_distance_meters, empty)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("prepare day insert: %w", err)
	}
	defer dayStmt.Close()

	segStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_segments (
		route_id, day_index, position,
		stop_id, address, kind, priority, lon, lat,
		depart_at, travel_seconds_to_next, distance_meters_to_next, arrive_next_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`)
	if err != nil {
		return fmt.Errorf("prepare segment insert: %w", err)
	}
	defer segStmt.Close()

	routeID := route.ID.String()
	for _, day := range route.Days {
		_, err := dayStmt.ExecContext(ctx,
			routeID, day.DayIndex,
			day.TotalDurationSeconds, day.TotalDistanceMeters, day.Empty,
		)
		if err != nil {
			return fmt.Errorf("insert day %d: %w", day.DayIndex, err)
		}

		for _, seg := range day.Segments {
			if seg.Stop == nil || seg.Stop.Coord == nil {
				return fmt.Errorf("insert day %d segment %d: stop missing coordinate", day.DayIndex, seg.Position)
			}

			var arrive any
			if !seg.ArriveNextAt.IsZero() {
				arrive = seg.ArriveNextAt
			}

			_, err := segStmt.ExecContext(ctx,
				routeID, day.DayIndex, seg.Position,
				seg.Stop.ID.String(), seg.Stop.Address, string(seg.Stop.Kind), string(seg.Stop.Priority),
				seg.Stop.Coord.Lon, seg.Stop.Coord.Lat,
				seg.DepartAt, seg.TravelSecondsToNext, seg.DistanceMetersToNext, arrive,
			)
			if err != nil {
				return fmt.Errorf("insert day %d segment %d: %w", day.DayIndex, seg.Position, err)
			}
		}
	}

	return nil
}

// Load a stored route with its days and segments.
func (r *PgRouteRepository) GetRoute(ctx context.Context, id uuid.UUID) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "routes.GetRoute")(&err)

	if r.DB == nil {
		return nil, errors.New("route repository: db is nil")
	}

	var (
		startID   string
		startAddr string
		lon, lat  float64
	)
	err = r.DB.QueryRowContext(ctx, `
	SELECT start_stop_id, start_address, start_lon, start_lat
	FROM routes
	WHERE route_id = $1;
	`, id.String()).Scan(&startID, &startAddr, &lon, &lat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route: query routes: %w", err)
	}

	start := &domain.Stop{
		ID:       parseStopID(startID),
		Address:  startAddr,
		Coord:    &domain.Coordinates{Lon: lon, Lat: lat},
		Kind:     domain.KindStart,
		Priority: domain.PriorityNormal,
	}

	route := &domain.Route{ID: id, Start: start}

	dayRows, err := r.DB.QueryContext(ctx, `
	SELECT day_index, total_duration_seconds, total_distance_meters, empty
	FROM route_days
	WHERE route_id = $1
	ORDER BY day_index;
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("get route: query days: %w", err)
	}
	defer dayRows.Close()

	days := make(map[int]*domain.Day)
	for dayRows.Next() {
		d := &domain.Day{}
		if err := dayRows.Scan(&d.DayIndex, &d.TotalDurationSeconds, &d.TotalDistanceMeters, &d.Empty); err != nil {
			return nil, fmt.Errorf("get route: scan day: %w", err)
		}
		days[d.DayIndex] = d
		route.Days = append(route.Days, d)
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("get route: day iteration: %w", err)
	}

	segRows, err := r.DB.QueryContext(ctx, `
	SELECT day_index, position, stop_id, address, kind, priority, lon, lat,
	       depart_at, travel_seconds_to_next, distance_meters_to_next, arrive_next_at
	FROM route_segments
	WHERE route_id = $1
	ORDER BY day_index, position;
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("get route: query segments: %w", err)
	}
	defer segRows.Close()

	for segRows.Next() {
		var (
			dayIndex, position            int
			stopID, addr, kind, priority  string
			segLon, segLat                float64
			departAt                      time.Time
			travelSeconds, distanceMeters int
			arriveNextAt                  sql.NullTime
		)
		err := segRows.Scan(
			&dayIndex, &position, &stopID, &addr, &kind, &priority, &segLon, &segLat,
			&departAt, &travelSeconds, &distanceMeters, &arriveNextAt,
		)
		if err != nil {
			return nil, fmt.Errorf("get route: scan segment: %w", err)
		}

		day, ok := days[dayIndex]
		if !ok {
			return nil, fmt.Errorf("get route: segment references unknown day %d", dayIndex)
		}

		stop := start
		if position != 0 {
			stop = &domain.Stop{
				ID:       parseStopID(stopID),
				Address:  addr,
				Coord:    &domain.Coordinates{Lon: segLon, Lat: segLat},
				Kind:     domain.StopKind(kind),
				Priority: domain.Priority(priority),
			}
		}

		seg := domain.Segment{
			Stop:                 stop,
			Position:             position,
			DepartAt:             departAt,
			TravelSecondsToNext:  travelSeconds,
			DistanceMetersToNext: distanceMeters,
		}
		if arriveNextAt.Valid {
			seg.ArriveNextAt = arriveNextAt.Time
		}

		day.Segments = append(day.Segments, seg)
	}
	if err := segRows.Err(); err != nil {
		return nil, fmt.Errorf("get route: segment iteration: %w", err)
	}

	return route, nil
}
