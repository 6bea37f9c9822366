package prediction

import (
	"sync"
	"time"

	"sortserver/internal/models"
)

// Snapshot is a consistent, caller-owned copy of the latest prediction
// state. Current is nil until the first classification commits.
type Snapshot struct {
	Current    *models.Classification
	FrameCount uint64
	UpdatedAt  time.Time
}

// Store is the single shared record of the latest known classification.
// It is the only component allowed to mutate that record: writes are
// serialized, readers get copies and never observe a half-written update.
type Store struct {
	mu         sync.RWMutex
	current    *models.Classification
	frameCount uint64
	updatedAt  time.Time
}

// NewStore creates an empty store. The frame counter is monotonic for the
// life of the process.
func NewStore() *Store {
	return &Store{}
}

// Update commits a new classification, superseding the previous one.
// countFrame bumps the model-invocation counter; skipped stream frames and
// failed decodes never reach this method, so the counter stays an accurate
// count of inference calls.
func (s *Store) Update(result models.Classification, countFrame bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := result
	copied.All = result.All.Clone()
	s.current = &copied
	if countFrame {
		s.frameCount++
	}
	s.updatedAt = time.Now()
}

// Snapshot returns an independent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		FrameCount: s.frameCount,
		UpdatedAt:  s.updatedAt,
	}
	if s.current != nil {
		copied := *s.current
		copied.All = s.current.All.Clone()
		snap.Current = &copied
	}
	return snap
}

// FrameCount returns the number of frames submitted to the classifier.
func (s *Store) FrameCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frameCount
}
