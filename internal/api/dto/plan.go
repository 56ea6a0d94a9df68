package dto

import "time"

type PlanStopRequest struct {
	Address  string `json:"address"`
	Priority string `json:"priority"`
}

type PlanRequest struct {
	Start        string            `json:"start"`
	Destinations []PlanStopRequest `json:"destinations"`
	// UseStoredStops plans over the seeded stop set instead of the body's.
	UseStoredStops bool `json:"use_stored_stops"`

	MaxStopsPerDay        int        `json:"max_stops_per_day"`
	MaxDayDurationMinutes int        `json:"max_day_duration_minutes"`
	MinutesPerStop        int        `json:"minutes_per_stop"`
	OptimizeFor           string     `json:"optimize_for"`
	DayStartAt            *time.Time `json:"day_start_at"`
}

type SegmentResponse struct {
	Position int    `json:"position"`
	StopID   string `json:"stop_id"`
	Address  string `json:"address"`
	Priority string `json:"priority"`

	DepartAt             time.Time  `json:"depart_at"`
	TravelSecondsToNext  int        `json:"travel_seconds_to_next,omitempty"`
	DistanceMetersToNext int        `json:"distance_meters_to_next,omitempty"`
	ArriveNextAt         *time.Time `json:"arrive_next_at,omitempty"`
}

type DayResponse struct {
	DayIndex             int               `json:"day_index"`
	Empty                bool              `json:"empty"`
	StopCount            int               `json:"stop_count"`
	TotalDurationSeconds int               `json:"total_duration_seconds"`
	TotalDistanceMeters  int               `json:"total_distance_meters"`
	Segments             []SegmentResponse `json:"segments"`
}

type DaySummaryResponse struct {
	DayIndex             int `json:"day_index"`
	StopCount            int `json:"stop_count"`
	TotalDurationSeconds int `json:"total_duration_seconds"`
	TotalDistanceMeters  int `json:"total_distance_meters"`
}

type PlanResponse struct {
	RouteID   string               `json:"route_id"`
	Start     string               `json:"start"`
	Days      []DayResponse        `json:"days"`
	Summaries []DaySummaryResponse `json:"summaries"`
}

type ReorderRequest struct {
	RouteID   string `json:"route_id"`
	FromIndex int    `json:"from_index"`
	ToIndex   int    `json:"to_index"`
}

type ReorderResponse struct {
	RouteID   string               `json:"route_id"`
	Changes   []string             `json:"changes"`
	Days      []DayResponse        `json:"days"`
	Summaries []DaySummaryResponse `json:"summaries"`
}
