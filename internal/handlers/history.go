package handlers

import (
	"net/http"
	"strconv"

	"sortserver/internal/logger"
	"sortserver/internal/models"
	"sortserver/internal/services"
)

// HistoryHandler returns recent classification events from the database.
func HistoryHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history := manager.GetHistory()
		if history == nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"records": []models.ClassificationRecord{},
				"total":   0,
			})
			return
		}

		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit <= 0 {
			limit = 50
		}

		records, err := history.GetRecent(limit)
		if err != nil {
			logger.Error("Failed to load classification history: %v", err)
			http.Error(w, "Unable to load history", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []models.ClassificationRecord{}
		}

		total, err := history.GetTotalCount()
		if err != nil {
			logger.Error("Failed to count classification history: %v", err)
			http.Error(w, "Unable to load history", http.StatusInternalServerError)
			return
		}

		perMaterial, err := history.CountByMaterial()
		if err != nil {
			logger.Error("Failed to aggregate classification history: %v", err)
			http.Error(w, "Unable to load history", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"records":     records,
			"total":       total,
			"perMaterial": perMaterial,
		})
	}
}
