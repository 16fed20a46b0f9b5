package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vulbon/Raining-Day-Map/internal/app"
)

const keepaliveInterval = 30 * time.Second

// handleEvents streams state events over Server-Sent Events. Each connection
// gets its own subscription; a slow reader drops events rather than stalling
// the store.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	clientID := r.Header.Get("X-Client-Id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	events := s.store.Subscribe(clientID)
	defer s.store.Unsubscribe(clientID)

	// Snapshot first so a client never waits for the next transition to
	// learn the current state.
	initial := app.StateEvent{
		Type: "connected",
		View: s.store.View(),
		At:   time.Now(),
	}
	if err := writeEvent(w, initial); err != nil {
		return
	}
	flusher.Flush()

	s.logger.Info("event stream client connected", "client_id", clientID)

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("event stream client disconnected", "client_id", clientID)
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				s.logger.Warn("event stream write failed", "client_id", clientID, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev app.StateEvent) error {
	payload, err := json.Marshal(ev.View)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.At.UnixNano(), ev.Type, payload); err != nil {
		return err
	}
	return nil
}
