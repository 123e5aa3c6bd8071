package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/shift-calendar/pipeline"
	"github.com/warp/shift-calendar/shift"
)

// SSEWriter writes Server-Sent Events.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter sets the stream headers.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends one named event with a JSON payload.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteComment sends a keep-alive comment.
func (s *SSEWriter) WriteComment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

type sseMessage struct {
	event string
	data  any
}

// eventBuffer bounds how far a slow client may fall behind before events
// are dropped for it.
const eventBuffer = 64

var keepAliveInterval = 25 * time.Second

// Events streams calendar and upload events until the client disconnects.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported", err)
		return
	}

	messages := make(chan sseMessage, eventBuffer)
	send := func(m sseMessage) {
		select {
		case messages <- m:
		default:
			h.logger.Warn("dropping event for slow client", "event", m.event)
		}
	}

	unsubCalendar := h.Calendar.Subscribe(func(e shift.Event) {
		send(sseMessage{event: "calendar", data: toCalendarEventDTO(e)})
	})
	defer unsubCalendar()
	unsubPipeline := h.Pipeline.Subscribe(func(e pipeline.Event) {
		send(sseMessage{event: "upload", data: toSubmissionDTO(e.Submission)})
	})
	defer unsubPipeline()

	w.WriteHeader(http.StatusOK)
	if err := sse.WriteComment("connected"); err != nil {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case m := <-messages:
			if err := sse.WriteEvent(m.event, m.data); err != nil {
				return
			}
		case <-ticker.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		}
	}
}
