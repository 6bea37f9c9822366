package services

import (
	"errors"
	"fmt"
	"time"
)

// ErrIdentifyTimeout means an on-demand classification did not finish within
// the configured bound.
var ErrIdentifyTimeout = errors.New("classification timed out")

// CooldownError is the expected denial outcome of the on-demand flow: the
// previous manual trigger was accepted too recently. It is control flow, not
// a fault, and carries the remaining wait for the caller.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, retry in %v", e.Remaining.Round(time.Millisecond))
}
