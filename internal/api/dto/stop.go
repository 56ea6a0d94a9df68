package dto

type StopResponse struct {
	StopID   string `json:"stop_id"`
	Address  string `json:"address"`
	Kind     string `json:"kind"`
	Priority string `json:"priority"`
}

type ListStopsResponse struct {
	Stops []StopResponse `json:"stops"`
}
