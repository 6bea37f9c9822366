package dto

// IdentifyRequest is the JSON form of a manual trigger: one base64-encoded
// JPEG. The device may instead POST the raw JPEG bytes with an image/jpeg
// content type.
type IdentifyRequest struct {
	Image string `json:"image"`
}

// IdentifyResponse is the wire form of an on-demand classification outcome.
type IdentifyResponse struct {
	Success        bool               `json:"success"`
	MaterialType   string             `json:"materialType,omitempty"`
	Confidence     float32            `json:"confidence,omitempty"`
	Action         string             `json:"action,omitempty"`
	AllPredictions map[string]float32 `json:"allPredictions,omitempty"`
	Error          string             `json:"error,omitempty"`
	RetryAfterMs   int64              `json:"retryAfterMs,omitempty"`
}
