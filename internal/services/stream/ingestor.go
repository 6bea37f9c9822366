package stream

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"sortserver/internal/config"
	"sortserver/internal/logger"
	"sortserver/internal/models"
)

// maxFrameBytes bounds a single multipart payload so a corrupt stream cannot
// grow a frame without limit.
const maxFrameBytes = 8 << 20

// Ingestor maintains the long-lived connection to the camera's multipart
// stream and turns it into an effectively infinite frame sequence. It owns
// all reconnect state: on any I/O error it enters Error, waits a capped
// exponential backoff and retries indefinitely.
//
// Delivery is a single-slot, latest-wins channel. When the consumer lags,
// the stale frame is replaced by the newest one; the ingestor never builds a
// backlog.
type Ingestor struct {
	url         string
	client      *http.Client
	readTimeout time.Duration
	backoffMin  time.Duration
	backoffMax  time.Duration

	status atomic.Int32
	seq    uint64
	frames chan models.Frame
	logger *logger.Logger
}

// NewIngestor creates an ingestor for the configured stream endpoint.
func NewIngestor(config *config.Config, logger *logger.Logger) *Ingestor {
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
			ResponseHeaderTimeout: 5 * time.Second,
		},
	}

	return &Ingestor{
		url:         config.StreamURL,
		client:      client,
		readTimeout: config.StreamReadTimeout,
		backoffMin:  config.BackoffMin,
		backoffMax:  config.BackoffMax,
		frames:      make(chan models.Frame, 1),
		logger:      logger,
	}
}

// Frames returns the latest-wins frame channel.
func (i *Ingestor) Frames() <-chan models.Frame {
	return i.frames
}

// Status returns the current connection status.
func (i *Ingestor) Status() Status {
	return Status(i.status.Load())
}

func (i *Ingestor) setStatus(s Status) {
	i.status.Store(int32(s))
}

// Run drives the connect/stream/backoff loop until ctx is cancelled.
func (i *Ingestor) Run(ctx context.Context) {
	backoff := i.backoffMin

	for {
		if ctx.Err() != nil {
			i.setStatus(StatusDisconnected)
			return
		}

		i.setStatus(StatusConnecting)
		i.logger.Info("Connecting to camera stream at %s", i.url)

		delivered, err := i.consume(ctx)
		if ctx.Err() != nil {
			i.setStatus(StatusDisconnected)
			return
		}

		i.setStatus(StatusError)
		if delivered {
			// The link worked for a while; start the backoff ladder over.
			backoff = i.backoffMin
		}
		i.logger.Warning("Camera stream lost: %v (reconnecting in %v)", err, backoff)

		select {
		case <-ctx.Done():
			i.setStatus(StatusDisconnected)
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > i.backoffMax {
			backoff = i.backoffMax
		}
	}
}

// consume opens the stream and extracts frames until the connection dies.
// It reports whether at least one frame was delivered on this connection.
func (i *Ingestor) consume(ctx context.Context) (bool, error) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, i.url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build stream request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("stream endpoint returned %s", resp.Status)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return false, fmt.Errorf("endpoint is not a multipart stream (Content-Type %q)", resp.Header.Get("Content-Type"))
	}

	i.setStatus(StatusStreaming)
	i.logger.Info("Camera stream connected (%s)", mediaType)

	// Stall watchdog: if no frame arrives within readTimeout the request
	// context is cancelled, failing the blocked read and forcing a reconnect.
	watchdog := time.AfterFunc(i.readTimeout, cancel)
	defer watchdog.Stop()

	reader := multipart.NewReader(resp.Body, params["boundary"])
	delivered := false

	for {
		part, err := reader.NextPart()
		if err != nil {
			return delivered, fmt.Errorf("stream read failed: %w", err)
		}

		data, err := io.ReadAll(io.LimitReader(part, maxFrameBytes+1))
		part.Close()
		if err != nil {
			if reqCtx.Err() != nil {
				return delivered, fmt.Errorf("stream stalled for %v", i.readTimeout)
			}
			i.logger.Warning("Dropping malformed frame part: %v", err)
			continue
		}
		if len(data) == 0 {
			continue
		}
		if len(data) > maxFrameBytes {
			i.logger.Warning("Dropping oversized frame part (> %d bytes)", maxFrameBytes)
			continue
		}

		watchdog.Reset(i.readTimeout)

		i.seq++
		i.publish(models.Frame{
			Seq:        i.seq,
			Data:       data,
			ReceivedAt: time.Now(),
		})
		delivered = true
	}
}

// publish hands a frame to the consumer, replacing an unconsumed stale one.
func (i *Ingestor) publish(frame models.Frame) {
	select {
	case i.frames <- frame:
		return
	default:
	}

	// Slot full: evict the stale frame, then offer the new one again. A
	// concurrent consumer may win either race, which is fine — it got a
	// newer frame than the one we evicted, or will get ours.
	select {
	case <-i.frames:
	default:
	}
	select {
	case i.frames <- frame:
	default:
	}
}
