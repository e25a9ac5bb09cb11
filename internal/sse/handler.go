package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/listenupapp/listenup-console/internal/http/response"
)

// writeTimeout is pushed forward after every frame, so a reader that stops
// consuming is cut off instead of pinning the goroutine.
const writeTimeout = time.Minute

// Handler serves GET /api/events.
type Handler struct {
	manager *Manager
	log     *slog.Logger
}

// NewHandler returns a Handler streaming from manager.
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{manager: manager, log: logger}
}

// ServeHTTP opens the stream, sends a connected frame, then relays events
// until the client goes away or the manager closes it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w, "method not allowed", h.log)
		return
	}
	ctx := r.Context()
	if ctx.Err() != nil {
		return
	}

	client, err := h.manager.Connect()
	if err != nil {
		h.log.Warn("event stream refused", "error", err)
		response.ServiceUnavailable(w, "event stream unavailable", h.log)
		return
	}
	defer h.manager.Disconnect(client.ID)

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")

	out := frameWriter{w: w, rc: http.NewResponseController(w)}
	log := h.log.With("client_id", client.ID)

	if err := out.send("", "connected", map[string]string{"client_id": client.ID}); err != nil {
		log.Warn("could not open event stream", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-client.Done:
			log.Debug("stream closed by manager")
			return
		case event, ok := <-client.EventChan:
			if !ok {
				return
			}
			if err := out.send(event.ID, string(event.Type), event); err != nil {
				log.Debug("stream write failed", "error", err)
				return
			}
		}
	}
}

type frameWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

// send writes one frame (optional id, event name, JSON data) and flushes.
func (f frameWriter) send(eventID, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}

	var frame []byte
	if eventID != "" {
		frame = fmt.Appendf(frame, "id: %s\n", eventID)
	}
	frame = fmt.Appendf(frame, "event: %s\ndata: %s\n\n", name, payload)
	if _, err := f.w.Write(frame); err != nil {
		return err
	}
	if err := f.rc.Flush(); err != nil {
		return err
	}
	// httptest recorders and some proxies do not support deadlines.
	_ = f.rc.SetWriteDeadline(time.Now().Add(writeTimeout))
	return nil
}
