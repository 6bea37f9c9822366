package prediction

import (
	"sync"
	"time"
)

// CooldownGate enforces a minimum interval between accepted manual-trigger
// requests. The check-then-record step is atomic: of two concurrent callers
// inside one cooldown window, exactly one acquires.
type CooldownGate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time // zero until the first acceptance
}

// NewCooldownGate creates a gate with a fixed interval.
func NewCooldownGate(interval time.Duration) *CooldownGate {
	return &CooldownGate{interval: interval}
}

// TryAcquire accepts when at least the cooldown interval has passed since
// the last acceptance (or none exists) and records now as the new
// last-accepted time. On denial it returns the remaining wait and leaves
// state unchanged.
func (g *CooldownGate) TryAcquire(now time.Time) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() {
		elapsed := now.Sub(g.last)
		if elapsed < g.interval {
			return false, g.interval - elapsed
		}
	}

	g.last = now
	return true, 0
}

// Interval returns the configured cooldown interval.
func (g *CooldownGate) Interval() time.Duration {
	return g.interval
}
