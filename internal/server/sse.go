package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grovetool/appgraph/internal/events"
)

const (
	// sseRingBufferSize is the number of recent diff completions kept in
	// memory for Last-Event-ID reconnection support.
	sseRingBufferSize = 256

	// sseKeepaliveInterval is how often keepalive comments are sent to
	// prevent connection timeouts.
	sseKeepaliveInterval = 15 * time.Second
)

// sseEvent is one completed diff stored in the ring buffer and sent to
// stream clients.
type sseEvent struct {
	ID   uint64 // monotonically increasing sequence number
	Data []byte // JSON-encoded DiffCompleted payload
}

// sseHub fans out completed diffs to connected SSE clients. It maintains an
// in-memory ring buffer for Last-Event-ID reconnection, so the stream works
// whether or not a broker is configured.
type sseHub struct {
	mu      sync.RWMutex
	clients map[chan *sseEvent]struct{}
	nextID  atomic.Uint64

	// Ring buffer for replay on reconnection.
	ringMu  sync.RWMutex
	ring    [sseRingBufferSize]sseEvent
	ringPos int // next write position, wraps around
	ringLen int // number of valid entries
}

func newSSEHub() *sseHub {
	return &sseHub{clients: make(map[chan *sseEvent]struct{})}
}

// broadcast stores the payload in the ring and delivers it to every connected
// client. Clients whose channel is full are skipped rather than blocking the
// diff path.
func (h *sseHub) broadcast(payload []byte) *sseEvent {
	evt := &sseEvent{ID: h.nextID.Add(1), Data: payload}

	h.ringMu.Lock()
	h.ring[h.ringPos] = *evt
	h.ringPos = (h.ringPos + 1) % sseRingBufferSize
	if h.ringLen < sseRingBufferSize {
		h.ringLen++
	}
	h.ringMu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
		}
	}
	return evt
}

// subscribe registers a stream client. The caller must unsubscribe when done.
func (h *sseHub) subscribe() chan *sseEvent {
	ch := make(chan *sseEvent, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *sseHub) unsubscribe(ch chan *sseEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// eventsSince returns buffered events with ID greater than lastID, oldest
// first.
func (h *sseHub) eventsSince(lastID uint64) []*sseEvent {
	h.ringMu.RLock()
	defer h.ringMu.RUnlock()

	if h.ringLen == 0 {
		return nil
	}

	var result []*sseEvent
	start := h.ringPos - h.ringLen
	if start < 0 {
		start += sseRingBufferSize
	}
	for i := 0; i < h.ringLen; i++ {
		idx := (start + i) % sseRingBufferSize
		evt := h.ring[idx]
		if evt.ID > lastID {
			result = append(result, &evt)
		}
	}
	return result
}

// broadcastDiff encodes a completed diff and hands it to the stream hub.
func (s *DiffServer) broadcastDiff(event events.DiffCompleted) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to encode event for stream",
			"run_id", event.RunID,
			"error", err,
		)
		return
	}
	s.stream.broadcast(payload)
}

// handleEventStream handles GET /v1/events. Each completed diff is delivered
// as one SSE event; a Last-Event-ID header replays what the client missed
// while disconnected.
func (s *DiffServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ch := s.stream.subscribe()
	defer s.stream.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Replay missed events when the client reconnects with Last-Event-ID.
	if lastIDStr := r.Header.Get("Last-Event-ID"); lastIDStr != "" {
		if lastID, err := strconv.ParseUint(lastIDStr, 10, 64); err == nil {
			for _, evt := range s.stream.eventsSince(lastID) {
				writeSSEEvent(w, evt)
			}
			flusher.Flush()
		}
	}

	ctx := r.Context()
	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-ch:
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes a single event in SSE wire format.
func writeSSEEvent(w http.ResponseWriter, evt *sseEvent) {
	fmt.Fprintf(w, "id:%d\n", evt.ID)
	fmt.Fprintf(w, "event:%s\n", events.TopicDiffCompleted)
	fmt.Fprintf(w, "data:%s\n\n", evt.Data)
}
