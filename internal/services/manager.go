package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"sortserver/internal/logger"
	"sortserver/internal/models"
	"sortserver/internal/repository"
	"sortserver/internal/services/ai"
	"sortserver/internal/services/events"
	"sortserver/internal/services/prediction"
	"sortserver/internal/services/sorting"
	"sortserver/internal/services/stream"
	"sortserver/internal/services/websocket"
)

// Classifier is the manager's view of the model: bytes in, label
// probabilities out.
type Classifier interface {
	Classify(image []byte) (models.Distribution, error)
	Loaded() bool
	Labels() []string
}

// FrameSource feeds the continuous flow. Satisfied by stream.Ingestor.
type FrameSource interface {
	Run(ctx context.Context)
	Frames() <-chan models.Frame
	Status() stream.Status
}

// Manager composes the two supported flows. The continuous flow pulls frames
// from the camera stream, classifies a bounded subset and keeps the
// prediction store current. The on-demand flow classifies one caller-supplied
// frame synchronously, behind the cooldown gate. Both flows commit through
// the same path, so the store, the viewer hub, the history repository and
// the event publisher all see one ordered sequence of results.
type Manager struct {
	classifier Classifier
	mapper     *sorting.Mapper
	store      *prediction.Store
	gate       *prediction.CooldownGate
	scheduler  *stream.Scheduler
	source     FrameSource
	hub        *websocket.HubService
	history    repository.ClassificationRepository
	publisher  *events.Publisher
	logger     *logger.Logger

	identifyTimeout time.Duration
	monitoring      atomic.Bool
}

func NewManager(
	classifier Classifier,
	mapper *sorting.Mapper,
	store *prediction.Store,
	gate *prediction.CooldownGate,
	scheduler *stream.Scheduler,
	source FrameSource,
	hub *websocket.HubService,
	history repository.ClassificationRepository,
	publisher *events.Publisher,
	identifyTimeout time.Duration,
	logger *logger.Logger,
) *Manager {
	return &Manager{
		classifier:      classifier,
		mapper:          mapper,
		store:           store,
		gate:            gate,
		scheduler:       scheduler,
		source:          source,
		hub:             hub,
		history:         history,
		publisher:       publisher,
		identifyTimeout: identifyTimeout,
		logger:          logger,
	}
}

// Run drives the continuous monitoring flow until ctx is cancelled. With no
// model loaded the flow never starts: the process keeps serving status and
// error responses in a degraded mode instead of crashing.
func (m *Manager) Run(ctx context.Context) {
	if !m.classifier.Loaded() {
		m.logger.Error("Model not loaded - continuous monitoring disabled")
		return
	}

	go m.source.Run(ctx)

	m.monitoring.Store(true)
	defer m.monitoring.Store(false)
	m.logger.Info("🎬 Continuous monitoring started - classifying every %dth frame", m.scheduler.Skip())

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("🛑 Continuous monitoring stopped")
			return
		case frame := <-m.source.Frames():
			if !m.scheduler.Admit() {
				continue
			}
			m.classifyFrame(frame)
		}
	}
}

// classifyFrame runs one scheduled classification on the continuous path.
// A frame that fails to decode is logged and skipped; the flow continues
// with the next scheduled frame.
func (m *Manager) classifyFrame(frame models.Frame) {
	defer m.scheduler.Done()

	dist, err := m.classifier.Classify(frame.Data)
	if err != nil {
		if errors.Is(err, ai.ErrInvalidImage) {
			m.logger.Warning("Skipping undecodable frame %d: %v", frame.Seq, err)
			return
		}
		m.logger.Error("Classification of frame %d failed: %v", frame.Seq, err)
		return
	}

	result := m.mapper.Decide(dist)
	result.Source = models.SourceStream
	m.commit(result)
}

// Identify is the on-demand flow: cooldown gate, then one synchronous
// classification of the supplied frame. On acceptance the result commits to
// the store exactly like a continuous-flow result.
func (m *Manager) Identify(image []byte, now time.Time) (*models.Classification, error) {
	ok, remaining := m.gate.TryAcquire(now)
	if !ok {
		return nil, &CooldownError{Remaining: remaining}
	}

	type outcome struct {
		dist models.Distribution
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		dist, err := m.classifier.Classify(image)
		done <- outcome{dist: dist, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-time.After(m.identifyTimeout):
		return nil, ErrIdentifyTimeout
	}
	if out.err != nil {
		return nil, out.err
	}

	result := m.mapper.Decide(out.dist)
	result.Source = models.SourceManual
	m.commit(result)

	m.logger.Info("Manual identify: %s (confidence %.2f) -> %s", result.MaterialType, result.Confidence, result.Action)
	return &result, nil
}

// commit is the single serialization point for accepted classifications.
func (m *Manager) commit(result models.Classification) {
	m.store.Update(result, true)

	if m.hub != nil {
		m.hub.BroadcastClassification(result)
	}

	rec := models.ClassificationRecord{
		ID:           uuid.New().String(),
		MaterialType: result.MaterialType,
		Confidence:   result.Confidence,
		Action:       result.Action,
		Source:       result.Source,
		CreatedAt:    result.At,
	}
	if m.history != nil {
		if err := m.history.Insert(&rec); err != nil {
			m.logger.Error("Failed to record classification: %v", err)
		}
	}
	if m.publisher != nil {
		if err := m.publisher.PublishClassification(rec); err != nil {
			m.logger.Error("Failed to publish classification event: %v", err)
		}
	}
}

// Snapshot returns the current prediction state.
func (m *Manager) Snapshot() prediction.Snapshot {
	return m.store.Snapshot()
}

// StreamStatus returns the ingestor's connection status.
func (m *Manager) StreamStatus() stream.Status {
	return m.source.Status()
}

// ModelLoaded reports whether the classifier initialized.
func (m *Manager) ModelLoaded() bool {
	return m.classifier.Loaded()
}

// Labels returns the configured label list.
func (m *Manager) Labels() []string {
	return m.classifier.Labels()
}

// MonitoringActive reports whether the continuous flow is running.
func (m *Manager) MonitoringActive() bool {
	return m.monitoring.Load()
}

// GetHubService exposes the viewer hub for the websocket handler.
func (m *Manager) GetHubService() *websocket.HubService {
	return m.hub
}

// GetHistory exposes the classification history repository.
func (m *Manager) GetHistory() repository.ClassificationRepository {
	return m.history
}
