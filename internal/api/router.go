package api

import (
	"net/http"

	"visit-route-service/internal/api/handlers"
	"visit-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// routeRepo may be nil, which disables day reordering over stored routes.
func NewRouter(
	stopRepo ports.StopRepository,
	routeRepo ports.RouteRepository,
	geocoder ports.Geocoder,
	estimator ports.Estimator,
) http.Handler {
	mux := http.NewServeMux()

	stopHandler := &handlers.StopHandler{Repo: stopRepo}
	planHandler := &handlers.PlanHandler{
		StopRepo:  stopRepo,
		RouteRepo: routeRepo,
		Geocoder:  geocoder,
		Estimator: estimator,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stops", stopHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/routes/reorder", planHandler.Reorder)

	return loggingMiddleware(mux)
}
