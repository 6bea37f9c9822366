package stream

// Status is the ingestor's connection state. Transitions:
// Disconnected -> Connecting -> Streaming -> (Error | Disconnected),
// with Error looping back to Connecting after backoff.
type Status int32

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusStreaming
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusStreaming:
		return "streaming"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
