package models

import "time"

// Frame is one encoded image pulled from the camera stream. Ownership moves
// from the ingestor to the scheduler to the classifier call; the bytes must
// not be mutated after construction.
type Frame struct {
	Seq        uint64
	Data       []byte
	ReceivedAt time.Time
}
