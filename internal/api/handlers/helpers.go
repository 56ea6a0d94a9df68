package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func dayResponse(d *domain.Day) dto.DayResponse {
	segments := make([]dto.SegmentResponse, 0, len(d.Segments))
	for _, s := range d.Segments {
		seg := dto.SegmentResponse{
			Position:             s.Position,
			StopID:               s.Stop.ID.String(),
			Address:              s.Stop.Address,
			Priority:             string(s.Stop.Priority),
			DepartAt:             s.DepartAt,
			TravelSecondsToNext:  s.TravelSecondsToNext,
			DistanceMetersToNext: s.DistanceMetersToNext,
		}
		if !s.ArriveNextAt.IsZero() {
			arrive := s.ArriveNextAt
			seg.ArriveNextAt = &arrive
		}
		segments = append(segments, seg)
	}

	return dto.DayResponse{
		DayIndex:             d.DayIndex,
		Empty:                d.Empty,
		StopCount:            d.StopCount(),
		TotalDurationSeconds: d.TotalDurationSeconds,
		TotalDistanceMeters:  d.TotalDistanceMeters,
		Segments:             segments,
	}
}

func routeDays(route *domain.Route) ([]dto.DayResponse, []dto.DaySummaryResponse) {
	days := make([]dto.DayResponse, 0, len(route.Days))
	summaries := make([]dto.DaySummaryResponse, 0, len(route.Days))
	for _, d := range route.Days {
		days = append(days, dayResponse(d))
		s := d.Summary()
		summaries = append(summaries, dto.DaySummaryResponse{
			DayIndex:             s.DayIndex,
			StopCount:            s.StopCount,
			TotalDurationSeconds: s.TotalDurationSeconds,
			TotalDistanceMeters:  s.TotalDistanceMeters,
		})
	}
	return days, summaries
}
