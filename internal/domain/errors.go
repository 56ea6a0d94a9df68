package domain

import (
	"errors"
	"fmt"
)

// ErrInsufficientStops is returned when a plan is requested without exactly
// one start stop and at least one destination. Handlers map it to HTTP 422.
var ErrInsufficientStops = errors.New("route requires exactly one start and at least one destination stop")

// ErrRouteNotFound is returned by route repositories when the requested
// route does not exist. Handlers map it to HTTP 404.
var ErrRouteNotFound = errors.New("route not found")

// A stop reached the clusterer without a coordinate, meaning the resolution
// phase was skipped or failed silently upstream.
type MissingCoordinateError struct {
	Address string
}

func (e *MissingCoordinateError) Error() string {
	return fmt.Sprintf("stop %q has no coordinate (resolve addresses before planning)", e.Address)
}

// Address resolution failed for a specific stop.
type ResolutionError struct {
	Address string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Address, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Travel estimation failed for a specific leg.
type EstimationError struct {
	From Coordinates
	To   Coordinates
	Err  error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("estimate leg %s -> %s: %v", e.From.Key(), e.To.Key(), e.Err)
}

func (e *EstimationError) Unwrap() error { return e.Err }

// An estimation failure encountered mid-schedule. Partial holds the day
// built so far so callers can report "scheduled up to stop N".
type SchedulingError struct {
	From    *Stop
	To      *Stop
	Partial *Day
	Err     error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("schedule leg %q -> %q: %v", e.From.Address, e.To.Address, e.Err)
}

func (e *SchedulingError) Unwrap() error { return e.Err }

// Day reordering was called with an out-of-range index.
type InvalidIndexError struct {
	Index int
	Len   int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("day index %d out of range (route has %d days)", e.Index, e.Len)
}
