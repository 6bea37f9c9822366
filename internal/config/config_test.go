package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 5001 {
		t.Errorf("Expected default port 5001, got %d", cfg.Port)
	}
	if cfg.FrameSkip != 5 {
		t.Errorf("Expected default frame skip 5, got %d", cfg.FrameSkip)
	}
	if cfg.CooldownInterval != 2*time.Second {
		t.Errorf("Expected default cooldown 2s, got %v", cfg.CooldownInterval)
	}
	if cfg.RejectThreshold != 0.5 {
		t.Errorf("Expected default reject threshold 0.5, got %v", cfg.RejectThreshold)
	}
	if cfg.RejectLabel != "Other" || cfg.RejectAction != "reject" {
		t.Errorf("Unexpected reject defaults: %q / %q", cfg.RejectLabel, cfg.RejectAction)
	}
	if cfg.LabelActions["Plastic Bottle"] != "sort_plastic" || cfg.LabelActions["Tin Can"] != "sort_tin_can" {
		t.Errorf("Unexpected default label actions: %v", cfg.LabelActions)
	}
	if cfg.ModelInputSize != 224 {
		t.Errorf("Expected default model input size 224, got %d", cfg.ModelInputSize)
	}
	if cfg.StreamReadTimeout != 10*time.Second {
		t.Errorf("Expected default stream read timeout 10s, got %v", cfg.StreamReadTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FRAME_SKIP", "3")
	t.Setenv("COOLDOWN_MS", "500")
	t.Setenv("REJECT_THRESHOLD", "0.7")
	t.Setenv("STREAM_URL", "http://10.0.0.2:81/stream")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.FrameSkip != 3 {
		t.Errorf("Expected frame skip 3, got %d", cfg.FrameSkip)
	}
	if cfg.CooldownInterval != 500*time.Millisecond {
		t.Errorf("Expected cooldown 500ms, got %v", cfg.CooldownInterval)
	}
	if cfg.RejectThreshold != 0.7 {
		t.Errorf("Expected reject threshold 0.7, got %v", cfg.RejectThreshold)
	}
	if cfg.StreamURL != "http://10.0.0.2:81/stream" {
		t.Errorf("Unexpected stream URL %q", cfg.StreamURL)
	}
}

func TestLoadInvalidEnvironmentFallsBack(t *testing.T) {
	t.Setenv("PORT", "not a number")
	t.Setenv("COOLDOWN_MS", "-100")

	cfg := Load()

	if cfg.Port != 5001 {
		t.Errorf("Invalid PORT must fall back to 5001, got %d", cfg.Port)
	}
	if cfg.CooldownInterval != 2*time.Second {
		t.Errorf("Invalid COOLDOWN_MS must fall back to 2s, got %v", cfg.CooldownInterval)
	}
}

func TestLabelActionsParsing(t *testing.T) {
	t.Setenv("LABEL_ACTIONS", "Glass Bottle=sort_glass, Tin Can = sort_tin_can,malformed")

	cfg := Load()

	if len(cfg.LabelActions) != 2 {
		t.Fatalf("Expected 2 parsed actions, got %v", cfg.LabelActions)
	}
	if cfg.LabelActions["Glass Bottle"] != "sort_glass" {
		t.Errorf("Expected sort_glass for Glass Bottle, got %v", cfg.LabelActions)
	}
	if cfg.LabelActions["Tin Can"] != "sort_tin_can" {
		t.Errorf("Whitespace around pairs must be trimmed, got %v", cfg.LabelActions)
	}
}

func TestLabelActionsAllMalformedFallsBack(t *testing.T) {
	t.Setenv("LABEL_ACTIONS", "no equals sign,=empty label")

	cfg := Load()

	if cfg.LabelActions["Plastic Bottle"] != "sort_plastic" {
		t.Errorf("All-malformed LABEL_ACTIONS must fall back to defaults, got %v", cfg.LabelActions)
	}
}
