package dto

import "time"

// PredictionSnapshot is the read-only view of the latest prediction state.
type PredictionSnapshot struct {
	MaterialType   string             `json:"materialType"`
	Confidence     float32            `json:"confidence"`
	Action         string             `json:"action"`
	AllPredictions map[string]float32 `json:"allPredictions"`
	FrameCount     uint64             `json:"frameCount"`
	ModelLoaded    bool               `json:"modelLoaded"`
	StreamStatus   string             `json:"streamStatus"`
	UpdatedAt      *time.Time         `json:"updatedAt,omitempty"`
}

// HealthResponse is the health-check payload.
type HealthResponse struct {
	Status           string   `json:"status"`
	ModelLoaded      bool     `json:"modelLoaded"`
	Labels           []string `json:"labels"`
	StreamURL        string   `json:"streamUrl"`
	StreamStatus     string   `json:"streamStatus"`
	MonitoringActive bool     `json:"monitoringActive"`
}
