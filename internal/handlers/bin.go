package handlers

import (
	"encoding/json"
	"net/http"

	"sortserver/internal/logger"
)

// BinUpdateHandler receives bin fill-level reports from the sorter device.
// The payload is acknowledged and logged; nothing is persisted.
func BinUpdateHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var data map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil || len(data) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   "No data received",
			})
			return
		}

		logger.Info("Bin update received: %v", data)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Bin update received",
		})
	}
}
