package api

import (
	"net/http"

	"truck-trading-service/internal/api/handlers"
	"truck-trading-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(engine *services.Engine) http.Handler {
	mux := http.NewServeMux()

	fleetHandler := &handlers.FleetHandler{Engine: engine}
	viewerHandler := NewViewerHandler(engine)

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/fleet", fleetHandler.List)
	mux.HandleFunc("/ws", viewerHandler.Handle)

	return loggingMiddleware(mux)
}
