package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StopKind distinguishes the single fixed start location of a route
// from the destinations to be visited.
type StopKind string

const (
	KindStart       StopKind = "start"
	KindDestination StopKind = "destination"
)

// Priority influences the order destinations are visited in.
// It only breaks ties; it never overrides geographic cost.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Rank maps a priority to a sortable integer, lower visits earlier.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	default:
		return 2
	}
}

// RevenueWeight is the per-stop value estimate used by the
// revenue-weighted tour cost function.
func (p Priority) RevenueWeight() float64 {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	default:
		return 1
	}
}

func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityUrgent:
		return PriorityUrgent, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityNormal, "":
		return PriorityNormal, nil
	}
	return "", fmt.Errorf("parse priority: unknown value %q", s)
}

// Represents a single location to visit.
// A Stop is immutable after creation except for Coord, which is filled in
// once by address resolution and never changed again.
type Stop struct {
	ID       uuid.UUID
	Address  string
	Coord    *Coordinates
	Kind     StopKind
	Priority Priority
}

// NewStop creates a stop from user input. The address is normalized
// (whitespace collapsed) so it can serve as a geocode cache key.
func NewStop(address string, kind StopKind, priority Priority) *Stop {
	if priority == "" {
		priority = PriorityNormal
	}
	return &Stop{
		ID:       uuid.New(),
		Address:  strings.Join(strings.Fields(address), " "),
		Kind:     kind,
		Priority: priority,
	}
}
