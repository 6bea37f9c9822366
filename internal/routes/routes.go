package routes

import (
	"net/http"

	"sortserver/internal/config"
	"sortserver/internal/handlers"
	"sortserver/internal/logger"
	"sortserver/internal/middleware"
	"sortserver/internal/services"
)

// SetupRoutes registers the API endpoints and wraps the mux with the CORS
// middleware.
func SetupRoutes(manager *services.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Identification endpoints
	mux.HandleFunc("/identify/material", handlers.IdentifyMaterialHandler(manager, logger))
	mux.HandleFunc("/identify/test", handlers.TestHandler(manager, cfg))

	// State endpoints
	mux.HandleFunc("/prediction", handlers.PredictionHandler(manager))
	mux.HandleFunc("/health", handlers.HealthHandler(manager, cfg))
	mux.HandleFunc("/bin/update", handlers.BinUpdateHandler(logger))

	// API endpoints
	mux.HandleFunc("/api/view", handlers.ViewWebsocketHandler(manager, logger))
	mux.HandleFunc("/api/history", handlers.HistoryHandler(manager, logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowInfoLogsHandler(cfg))
	mux.HandleFunc("/logs/warning", handlers.ShowWarningLogsHandler(cfg))
	mux.HandleFunc("/logs/error", handlers.ShowErrorLogsHandler(cfg))

	mux.HandleFunc("/logs/info/clear", handlers.ClearInfoLogsHandler(logger))
	mux.HandleFunc("/logs/warning/clear", handlers.ClearWarningLogsHandler(logger))
	mux.HandleFunc("/logs/error/clear", handlers.ClearErrorLogsHandler(logger))

	return middleware.CORSMiddleware(mux)
}
