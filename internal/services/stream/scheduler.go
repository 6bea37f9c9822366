package stream

import "sync/atomic"

// Scheduler decides which stream frames are forwarded to the classifier.
// Inference is far slower than the frame rate, so only every Nth arrival is
// scheduled, and a tick is skipped outright when the previous classification
// is still in flight. Skipped frames are dropped, never queued.
type Scheduler struct {
	skip     uint64
	arrivals atomic.Uint64
	inFlight atomic.Bool
}

// NewScheduler creates a scheduler forwarding every skip-th frame.
func NewScheduler(skip int) *Scheduler {
	if skip < 1 {
		skip = 1
	}
	return &Scheduler{skip: uint64(skip)}
}

// Admit records one frame arrival and reports whether this frame should be
// classified. At most one admission is outstanding at a time; the caller
// must call Done when the classification finishes.
func (s *Scheduler) Admit() bool {
	n := s.arrivals.Add(1)
	if n%s.skip != 0 {
		return false
	}
	return s.inFlight.CompareAndSwap(false, true)
}

// Done marks the in-flight classification as finished.
func (s *Scheduler) Done() {
	s.inFlight.Store(false)
}

// Skip returns the configured skip factor.
func (s *Scheduler) Skip() int {
	return int(s.skip)
}

// Arrivals returns the total number of frames observed.
func (s *Scheduler) Arrivals() uint64 {
	return s.arrivals.Load()
}
