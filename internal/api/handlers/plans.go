package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
	"visit-route-service/internal/services"
)

type PlanHandler struct {
	StopRepo  ports.StopRepository
	RouteRepo ports.RouteRepository
	Geocoder  ports.Geocoder
	Estimator ports.Estimator
}

// Plan runs the full pipeline (resolve, cluster, order, schedule) and
// persists the produced route when a route repository is configured.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	stops, err := h.requestStops(r, req)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	optimize, err := domain.ParseOptimizeMode(req.OptimizeFor)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	cons := domain.Constraints{
		MaxStopsPerDay: req.MaxStopsPerDay,
		MaxDayDuration: time.Duration(req.MaxDayDurationMinutes) * time.Minute,
		StopDwell:      time.Duration(req.MinutesPerStop) * time.Minute,
		Optimize:       optimize,
	}.Normalize()

	dayStartAt := defaultDayStart(time.Now().UTC())
	if req.DayStartAt != nil {
		dayStartAt = *req.DayStartAt
	}

	svcReq := services.PlanVisitsRequest{
		Stops:       stops,
		Constraints: cons,
		DayStartAt:  dayStartAt,
	}

	route, err := services.PlanVisits(r.Context(), svcReq, h.Geocoder, h.Estimator)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	if h.RouteRepo != nil {
		if err := h.RouteRepo.SaveRoute(r.Context(), route); err != nil {
			log.Printf("save route failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	days, summaries := routeDays(route)
	writeJSON(w, r, http.StatusOK, dto.PlanResponse{
		RouteID:   route.ID.String(),
		Start:     route.Start.Address,
		Days:      days,
		Summaries: summaries,
	})
}

// Reorder moves a stored route's day to a new position and reports the
// per-day shifts. The stored plan is only overwritten once the reorder
// succeeded; a failed call leaves it intact.
func (h *PlanHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.RouteRepo == nil {
		writeError(w, r, http.StatusNotImplemented, "route storage is not configured")
		return
	}

	var req dto.ReorderRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	routeID, err := uuid.Parse(strings.TrimSpace(req.RouteID))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "route_id must be a valid UUID")
		return
	}

	route, err := h.RouteRepo.GetRoute(r.Context(), routeID)
	if err != nil {
		if errors.Is(err, domain.ErrRouteNotFound) {
			writeError(w, r, http.StatusNotFound, "route not found")
			return
		}
		log.Printf("get route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	updated, shifts, err := services.ReorderDays(route, req.FromIndex, req.ToIndex)
	if err != nil {
		var idxErr *domain.InvalidIndexError
		if errors.As(err, &idxErr) {
			writeError(w, r, http.StatusUnprocessableEntity, idxErr.Error())
			return
		}
		log.Printf("reorder days failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.RouteRepo.ReplaceDays(r.Context(), updated); err != nil {
		log.Printf("replace days failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	changes := make([]string, 0, len(shifts))
	for _, s := range shifts {
		changes = append(changes, s.String())
	}

	days, summaries := routeDays(updated)
	writeJSON(w, r, http.StatusOK, dto.ReorderResponse{
		RouteID:   updated.ID.String(),
		Changes:   changes,
		Days:      days,
		Summaries: summaries,
	})
}

// requestStops builds the domain stop set either from the request body or
// from the seeded repository.
func (h *PlanHandler) requestStops(r *http.Request, req dto.PlanRequest) ([]*domain.Stop, error) {
	if req.UseStoredStops {
		return h.StopRepo.ListStops(r.Context())
	}

	start := strings.TrimSpace(req.Start)
	if start == "" {
		return nil, errors.New("start address is required")
	}

	stops := make([]*domain.Stop, 0, 1+len(req.Destinations))
	stops = append(stops, domain.NewStop(start, domain.KindStart, domain.PriorityNormal))

	for _, d := range req.Destinations {
		addr := strings.TrimSpace(d.Address)
		if addr == "" {
			return nil, errors.New("destination addresses must be non-empty")
		}
		priority, err := domain.ParsePriority(d.Priority)
		if err != nil {
			return nil, err
		}
		stops = append(stops, domain.NewStop(addr, domain.KindDestination, priority))
	}

	return stops, nil
}

// writePlanError maps pipeline failures to status codes, keeping the
// offending address or leg in the message instead of a generic failure.
func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		resErr *domain.ResolutionError
		estErr *domain.EstimationError
		schErr *domain.SchedulingError
		misErr *domain.MissingCoordinateError
	)

	switch {
	case errors.Is(err, domain.ErrInsufficientStops):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &resErr):
		writeError(w, r, http.StatusBadGateway, resErr.Error())
	case errors.As(err, &schErr):
		writeError(w, r, http.StatusBadGateway, schErr.Error())
	case errors.As(err, &estErr):
		writeError(w, r, http.StatusBadGateway, estErr.Error())
	case errors.As(err, &misErr):
		writeError(w, r, http.StatusUnprocessableEntity, misErr.Error())
	default:
		log.Printf("plan visits failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// defaultDayStart is 08:00 on the day of the request.
func defaultDayStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, now.Location())
}
