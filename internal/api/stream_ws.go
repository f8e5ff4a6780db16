package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// BatchStreamHandler handles GET /v1/batch/stream?batchId=...
//
// It upgrades to a websocket and forwards batch.progress and
// batch.completed events for the given batch id. Clients that supply
// their own batchId in the batch request can open the stream before
// submitting and miss no events.
func (s *Server) BatchStreamHandler(w http.ResponseWriter, r *http.Request) {
	batchID := r.URL.Query().Get("batchId")
	if batchID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid stream request", "batchId query parameter required", r.URL.Path)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ch := s.Broker.Subscribe(batchID)
	done := make(chan struct{})

	// Reader goroutine: consume control frames and detect close.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()
	defer s.Broker.Unsubscribe(batchID, ch)

	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
			if evt.Type == "batch.completed" {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
