package models

import "time"

// Source of a classification: the continuous stream flow or a manual trigger.
const (
	SourceStream = "stream"
	SourceManual = "manual"
)

// Classification is one committed identification result. Immutable; a new
// value supersedes the previous one in the prediction store.
type Classification struct {
	MaterialType string       `json:"materialType"`
	Confidence   float32      `json:"confidence"`
	Action       string       `json:"action"`
	All          Distribution `json:"allPredictions"`
	Source       string       `json:"source"`
	At           time.Time    `json:"at"`
}

// ClassificationRecord is the persisted form of a classification event.
type ClassificationRecord struct {
	ID           string    `json:"id"`
	MaterialType string    `json:"materialType"`
	Confidence   float32   `json:"confidence"`
	Action       string    `json:"action"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"createdAt"`
}
