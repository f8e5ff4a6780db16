// Package main runs a demo WebSocket client for batch progress events.
// It picks a batch id, opens the stream, then submits a batch and prints
// progress until batch.completed arrives.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type streamEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)
	batchID := uuid.New().String()
	log.Printf("Batch ID: %s", batchID)

	// Connect the stream first so no progress events are missed.
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/batch/stream", RawQuery: "batchId=" + batchID}
	hdr := http.Header{}
	hdr.Set("X-Tenant-Id", "t_demo")
	hdr.Set("X-Role", "admin")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var evt streamEvent
			if err := c.ReadJSON(&evt); err != nil {
				return
			}
			log.Printf("WS <- %s: %v", evt.Type, evt.Data)
			if evt.Type == "batch.completed" {
				return
			}
		}
	}()

	// Submit a small batch under the chosen id.
	problem := map[string]any{
		"depot": map[string]any{"name": "Depot", "lat": 40.7128, "lon": -74.0060},
		"customers": []map[string]any{
			{"name": "A", "lat": 40.7580, "lon": -73.9855, "demand": 300},
			{"name": "B", "lat": 40.6892, "lon": -74.0445, "demand": 400},
		},
	}
	body, _ := json.Marshal(map[string]any{
		"batchId":  batchID,
		"problems": []map[string]any{problem, problem, problem},
	})
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/batch/routes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "t_demo")
	req.Header.Set("X-Role", "admin")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var bres struct {
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bres); err != nil {
		log.Fatal(err)
	}
	log.Printf("batch done: succeeded=%d failed=%d", bres.Succeeded, bres.Failed)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
