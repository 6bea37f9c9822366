package ai

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"sortserver/internal/config"
	"sortserver/internal/logger"
	"sortserver/internal/models"
)

// ClassifierService runs single-image inference with the material
// identification model. The model is loaded once at startup; a failed load
// leaves the service in a degraded state where every Classify call returns
// ErrModelUnavailable.
type ClassifierService struct {
	labels    []string
	net       gocv.Net
	netMu     sync.Mutex // gocv.Net forward passes are not concurrency-safe
	loaded    bool
	inputSize int
	logger    *logger.Logger
}

// NewClassifierService loads the label list and the DNN model.
// A missing or unreadable labels file is a hard error; a missing model only
// degrades the service so the HTTP surface can still report status.
func NewClassifierService(config *config.Config, logger *logger.Logger) (*ClassifierService, error) {
	labels, err := LoadLabels(config.LabelsPath)
	if err != nil {
		return nil, err
	}

	service := &ClassifierService{
		labels:    labels,
		inputSize: config.ModelInputSize,
		logger:    logger,
	}

	if err := service.initializeNet(config.ModelPath); err != nil {
		service.logger.Warning("Could not initialize classification network: %v", err)
		return service, nil
	}

	service.logger.Info("Classification model loaded from %s (%d labels: %v)", config.ModelPath, len(labels), labels)
	return service, nil
}

// initializeNet loads the network from the model file.
func (s *ClassifierService) initializeNet(modelPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return fmt.Errorf("failed to load network from %s", modelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return fmt.Errorf("failed to set network backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return fmt.Errorf("failed to set network target: %w", err)
	}

	s.net = net
	s.loaded = true
	return nil
}

// Loaded reports whether the model initialized successfully at startup.
func (s *ClassifierService) Loaded() bool {
	return s.loaded
}

// Labels returns the configured label list in model output order.
func (s *ClassifierService) Labels() []string {
	return s.labels
}

// Classify runs one inference pass over an encoded image and returns the
// per-label probability distribution. Returns ErrModelUnavailable when the
// model never loaded and ErrInvalidImage when the bytes are not a decodable
// image; a bad frame never poisons the service for later calls.
func (s *ClassifierService) Classify(imageBytes []byte) (models.Distribution, error) {
	if !s.loaded {
		return models.Distribution{}, ErrModelUnavailable
	}

	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return models.Distribution{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return models.Distribution{}, ErrInvalidImage
	}

	// Model expects RGB input normalized to [0,1]; camera frames decode as BGR.
	blob := gocv.BlobFromImage(mat, 1.0/255.0,
		image.Pt(s.inputSize, s.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	s.netMu.Lock()
	s.net.SetInput(blob, "")
	output := s.net.Forward("")
	s.netMu.Unlock()
	defer output.Close()

	scores := make([]float32, len(s.labels))
	for i := range s.labels {
		scores[i] = clamp01(output.GetFloatAt(0, i))
	}

	return models.NewDistribution(s.labels, scores), nil
}

// Close releases the network.
func (s *ClassifierService) Close() {
	if s.loaded {
		s.net.Close()
		s.loaded = false
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
