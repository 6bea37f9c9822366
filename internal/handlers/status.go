package handlers

import (
	"net/http"

	"sortserver/internal/config"
	"sortserver/internal/dto"
	"sortserver/internal/services"
)

// PredictionHandler returns the latest prediction state. Read-only: it never
// mutates the store, no matter how often it is polled.
func PredictionHandler(manager *services.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := manager.Snapshot()

		resp := dto.PredictionSnapshot{
			MaterialType: "None",
			FrameCount:   snap.FrameCount,
			ModelLoaded:  manager.ModelLoaded(),
			StreamStatus: manager.StreamStatus().String(),
		}
		if snap.Current != nil {
			resp.MaterialType = snap.Current.MaterialType
			resp.Confidence = snap.Current.Confidence
			resp.Action = snap.Current.Action
			resp.AllPredictions = snap.Current.All.Map()
			updatedAt := snap.UpdatedAt
			resp.UpdatedAt = &updatedAt
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// HealthHandler reports process health and pipeline diagnostics.
func HealthHandler(manager *services.Manager, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.HealthResponse{
			Status:           "healthy",
			ModelLoaded:      manager.ModelLoaded(),
			Labels:           manager.Labels(),
			StreamURL:        cfg.StreamURL,
			StreamStatus:     manager.StreamStatus().String(),
			MonitoringActive: manager.MonitoringActive(),
		})
	}
}

// TestHandler is a plain liveness echo for device bring-up.
func TestHandler(manager *services.Manager, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":         "Backend server is running",
			"modelLoaded":     manager.ModelLoaded(),
			"labelsAvailable": manager.Labels(),
			"streamUrl":       cfg.StreamURL,
		})
	}
}
