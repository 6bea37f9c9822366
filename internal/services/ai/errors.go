package ai

import "errors"

var (
	// ErrModelUnavailable means the backing model never loaded. Classify
	// calls keep failing with it until the process is restarted.
	ErrModelUnavailable = errors.New("classification model not loaded")

	// ErrInvalidImage means the submitted bytes could not be decoded.
	ErrInvalidImage = errors.New("image could not be decoded")
)
