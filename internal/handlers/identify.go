package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"sortserver/internal/dto"
	"sortserver/internal/logger"
	"sortserver/internal/services"
	"sortserver/internal/services/ai"
)

// maxUploadBytes bounds a manual-trigger body (raw JPEG or base64 JSON).
const maxUploadBytes = 10 << 20

// IdentifyMaterialHandler serves the device's manual trigger: classify this
// exact frame now. The image arrives as a binary JPEG body or as a base64
// field in a JSON body.
func IdentifyMaterialHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		imageData, err := readImagePayload(r)
		if err != nil {
			logger.Warning("Rejected identify request: %v", err)
			writeJSON(w, http.StatusBadRequest, dto.IdentifyResponse{
				Success: false,
				Error:   err.Error(),
			})
			return
		}

		result, err := manager.Identify(imageData, time.Now())
		if err != nil {
			var cooldown *services.CooldownError
			switch {
			case errors.As(err, &cooldown):
				writeJSON(w, http.StatusTooManyRequests, dto.IdentifyResponse{
					Success:      false,
					Error:        "cooldown active",
					RetryAfterMs: cooldown.Remaining.Milliseconds(),
				})
			case errors.Is(err, ai.ErrInvalidImage):
				writeJSON(w, http.StatusBadRequest, dto.IdentifyResponse{
					Success: false,
					Error:   "image could not be decoded",
				})
			case errors.Is(err, ai.ErrModelUnavailable):
				writeJSON(w, http.StatusInternalServerError, dto.IdentifyResponse{
					Success: false,
					Error:   "model not loaded",
				})
			case errors.Is(err, services.ErrIdentifyTimeout):
				writeJSON(w, http.StatusGatewayTimeout, dto.IdentifyResponse{
					Success: false,
					Error:   "classification timed out",
				})
			default:
				logger.Error("Identify failed: %v", err)
				writeJSON(w, http.StatusInternalServerError, dto.IdentifyResponse{
					Success: false,
					Error:   "classification failed",
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, dto.IdentifyResponse{
			Success:        true,
			MaterialType:   result.MaterialType,
			Confidence:     result.Confidence,
			Action:         result.Action,
			AllPredictions: result.All.Map(),
		})
	}
}

// readImagePayload extracts the JPEG bytes from either supported body form.
func readImagePayload(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxUploadBytes))
	if err != nil {
		return nil, errors.New("failed to read request body")
	}
	if len(body) == 0 {
		return nil, errors.New("no image data received")
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var req dto.IdentifyRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, errors.New("invalid JSON body")
		}
		if req.Image == "" {
			return nil, errors.New("no image data in JSON")
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			return nil, errors.New("image field is not valid base64")
		}
		if len(decoded) == 0 {
			return nil, errors.New("no image data received")
		}
		return decoded, nil
	}

	// image/jpeg, or any unlabeled body: treat as raw bytes.
	return body, nil
}

// writeJSON encodes a payload with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
