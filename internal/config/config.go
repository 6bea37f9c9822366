package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port              int
	StreamURL         string            // ESP32-CAM multipart stream endpoint
	FrameSkip         int               // Classify every Nth stream frame
	CooldownInterval  time.Duration     // Minimum gap between manual triggers
	RejectThreshold   float32           // Below this confidence the action is always reject
	RejectLabel       string            // Catch-all class that is never sorted
	RejectAction      string            // Action emitted for rejected items
	LabelActions      map[string]string // Material label -> sorting action
	ModelPath         string
	LabelsPath        string
	ModelInputSize    int // Square input size of the model (Teachable Machine default is 224)
	DatabasePath      string
	LogDirectory      string
	StreamReadTimeout time.Duration // Reconnect when no frame arrives for this long
	BackoffMin        time.Duration // Initial reconnect backoff
	BackoffMax        time.Duration // Backoff cap
	IdentifyTimeout   time.Duration // Bound on a single on-demand classification
}

func Load() *Config {
	return &Config{
		Port:              getEnvAsInt("PORT", 5001),
		StreamURL:         getEnv("STREAM_URL", "http://192.168.31.76:81/stream"),
		FrameSkip:         getEnvAsInt("FRAME_SKIP", 5),
		CooldownInterval:  getEnvAsDuration("COOLDOWN_MS", 2000*time.Millisecond),
		RejectThreshold:   getEnvAsFloat("REJECT_THRESHOLD", 0.5),
		RejectLabel:       getEnv("REJECT_LABEL", "Other"),
		RejectAction:      getEnv("REJECT_ACTION", "reject"),
		LabelActions:      getEnvAsActions("LABEL_ACTIONS", map[string]string{"Plastic Bottle": "sort_plastic", "Tin Can": "sort_tin_can"}),
		ModelPath:         getEnv("MODEL_PATH", filepath.Join(".", "model", "model.pb")),
		LabelsPath:        getEnv("LABELS_PATH", filepath.Join(".", "model", "labels.txt")),
		ModelInputSize:    getEnvAsInt("MODEL_INPUT_SIZE", 224),
		DatabasePath:      getEnv("DB_PATH", filepath.Join(".", "classifications.db")),
		LogDirectory:      getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StreamReadTimeout: getEnvAsDuration("STREAM_READ_TIMEOUT_MS", 10000*time.Millisecond),
		BackoffMin:        getEnvAsDuration("STREAM_BACKOFF_MIN_MS", 500*time.Millisecond),
		BackoffMax:        getEnvAsDuration("STREAM_BACKOFF_MAX_MS", 15000*time.Millisecond),
		IdentifyTimeout:   getEnvAsDuration("IDENTIFY_TIMEOUT_MS", 10000*time.Millisecond),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
	}
	return defaultValue
}

// getEnvAsDuration reads an integer number of milliseconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// getEnvAsActions parses "Label=action,Other Label=other_action" pairs.
func getEnvAsActions(key string, defaultValue map[string]string) map[string]string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	actions := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		label := strings.TrimSpace(parts[0])
		action := strings.TrimSpace(parts[1])
		if label != "" && action != "" {
			actions[label] = action
		}
	}

	if len(actions) == 0 {
		return defaultValue
	}
	return actions
}
