package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sortserver/internal/config"
	"sortserver/internal/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
}

func newTestIngestor(t *testing.T, url string) *Ingestor {
	t.Helper()
	return NewIngestor(&config.Config{
		StreamURL:         url,
		StreamReadTimeout: 2 * time.Second,
		BackoffMin:        10 * time.Millisecond,
		BackoffMax:        40 * time.Millisecond,
	}, newTestLogger(t))
}

// writeFrame emits one multipart part in the ESP32-CAM stream format.
func writeFrame(w http.ResponseWriter, payload []byte) {
	fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(payload))
	w.Write(payload)
	fmt.Fprint(w, "\r\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

func streamHeader(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.WriteHeader(http.StatusOK)
}

func TestIngestor_ReceivesFramesInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		streamHeader(w)
		for i := 0; ; i++ {
			writeFrame(w, []byte(fmt.Sprintf("frame-%d", i)))
			select {
			case <-r.Context().Done():
				return
			case <-time.After(5 * time.Millisecond):
			}
		}
	}))
	defer server.Close()

	ingestor := newTestIngestor(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ingestor.Run(ctx)

	var lastSeq uint64
	for received := 0; received < 3; received++ {
		select {
		case frame := <-ingestor.Frames():
			if frame.Seq <= lastSeq {
				t.Errorf("Sequence must be monotonic: got %d after %d", frame.Seq, lastSeq)
			}
			lastSeq = frame.Seq
			if len(frame.Data) == 0 {
				t.Error("Frame payload must not be empty")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for frames")
		}
	}

	if ingestor.Status() != StatusStreaming {
		t.Errorf("Expected status streaming, got %v", ingestor.Status())
	}

	cancel()
	waitForStatus(t, ingestor, StatusDisconnected)
}

func TestIngestor_ReconnectsAfterDisconnect(t *testing.T) {
	var connections atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := connections.Add(1)
		streamHeader(w)
		// One frame per connection, then drop the link.
		writeFrame(w, []byte(fmt.Sprintf("conn-%d", n)))
	}))
	defer server.Close()

	ingestor := newTestIngestor(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sawError := make(chan struct{})
	go func() {
		for {
			if ingestor.Status() == StatusError {
				close(sawError)
				return
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	go ingestor.Run(ctx)

	payloads := make(map[string]bool)
	for len(payloads) < 2 {
		select {
		case frame := <-ingestor.Frames():
			payloads[string(frame.Data)] = true
		case <-time.After(3 * time.Second):
			t.Fatalf("Timed out waiting for frames across reconnects, got %v", payloads)
		}
	}

	select {
	case <-sawError:
	case <-time.After(time.Second):
		t.Error("Expected an error status between connections")
	}

	if connections.Load() < 2 {
		t.Errorf("Expected at least 2 connections, got %d", connections.Load())
	}
}

func TestIngestor_DropsEmptyParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		streamHeader(w)
		// Paced so the consumer sees every delivered frame.
		writeFrame(w, []byte("one"))
		time.Sleep(20 * time.Millisecond)
		writeFrame(w, nil) // truncated part: no payload
		time.Sleep(20 * time.Millisecond)
		writeFrame(w, []byte("two"))
		<-r.Context().Done()
	}))
	defer server.Close()

	ingestor := newTestIngestor(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ingestor.Run(ctx)

	var got []string
	for len(got) < 2 {
		select {
		case frame := <-ingestor.Frames():
			got = append(got, string(frame.Data))
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out, received %v", got)
		}
	}

	if got[0] != "one" || got[1] != "two" {
		t.Errorf("Expected [one two] with the empty part dropped, got %v", got)
	}
}

func TestIngestor_LatestWinsWithoutConsumer(t *testing.T) {
	const total = 50
	served := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		streamHeader(w)
		for i := 1; i <= total; i++ {
			writeFrame(w, []byte(fmt.Sprintf("frame-%d", i)))
		}
		close(served)
		<-r.Context().Done()
	}))
	defer server.Close()

	ingestor := newTestIngestor(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ingestor.Run(ctx)

	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("Server never finished streaming")
	}
	// Give the reader time to drain what the server wrote.
	time.Sleep(100 * time.Millisecond)

	if n := len(ingestor.Frames()); n > 1 {
		t.Errorf("Ingestor must never buffer more than one frame, found %d", n)
	}

	select {
	case frame := <-ingestor.Frames():
		if frame.Seq <= 1 {
			t.Errorf("Expected a recent frame in the slot, got seq %d", frame.Seq)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected the newest frame to be available")
	}
}

func TestIngestor_RejectsNonMultipartEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("not a stream"))
	}))
	defer server.Close()

	ingestor := newTestIngestor(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ingestor.Run(ctx)

	waitForStatus(t, ingestor, StatusError)

	select {
	case frame := <-ingestor.Frames():
		t.Errorf("No frame expected from a non-multipart endpoint, got %q", frame.Data)
	case <-time.After(50 * time.Millisecond):
	}
}

func waitForStatus(t *testing.T, ingestor *Ingestor, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ingestor.Status() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for status %v, still %v", want, ingestor.Status())
}
