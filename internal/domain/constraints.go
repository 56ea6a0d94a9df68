package domain

import (
	"fmt"
	"strings"
	"time"
)

// OptimizeMode selects the tour orderer's cost function.
type OptimizeMode string

const (
	OptimizeTime     OptimizeMode = "time"
	OptimizeDistance OptimizeMode = "distance"
	OptimizeRevenue  OptimizeMode = "revenue"
)

func ParseOptimizeMode(s string) (OptimizeMode, error) {
	switch OptimizeMode(strings.ToLower(strings.TrimSpace(s))) {
	case OptimizeTime, "":
		return OptimizeTime, nil
	case OptimizeDistance:
		return OptimizeDistance, nil
	case OptimizeRevenue:
		return OptimizeRevenue, nil
	}
	return "", fmt.Errorf("parse optimize mode: unknown value %q", s)
}

// Per-run planning configuration. Zero fields take defaults via Normalize;
// the engine never reads configuration from anywhere else.
type Constraints struct {
	MaxStopsPerDay int
	MaxDayDuration time.Duration
	StopDwell      time.Duration
	Optimize       OptimizeMode
}

const (
	DefaultMaxStopsPerDay = 6
	DefaultMaxDayDuration = 8 * time.Hour
	DefaultStopDwell      = 30 * time.Minute
)

func DefaultConstraints() Constraints {
	return Constraints{
		MaxStopsPerDay: DefaultMaxStopsPerDay,
		MaxDayDuration: DefaultMaxDayDuration,
		StopDwell:      DefaultStopDwell,
		Optimize:       OptimizeTime,
	}
}

// Normalize fills unset fields with defaults and returns the result.
func (c Constraints) Normalize() Constraints {
	if c.MaxStopsPerDay <= 0 {
		c.MaxStopsPerDay = DefaultMaxStopsPerDay
	}
	if c.MaxDayDuration <= 0 {
		c.MaxDayDuration = DefaultMaxDayDuration
	}
	if c.StopDwell <= 0 {
		c.StopDwell = DefaultStopDwell
	}
	if c.Optimize == "" {
		c.Optimize = OptimizeTime
	}
	return c
}
