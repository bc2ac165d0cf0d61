package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/mosaic/internal/ocr"
	"github.com/MeKo-Tech/mosaic/internal/pipeline"
	"github.com/MeKo-Tech/mosaic/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is deferred to the deployment's reverse proxy.
		return true
	},
}

// streamRequest is the single message a client sends: an image plus a mode.
// Image bytes travel base64-encoded per encoding/json convention.
type streamRequest struct {
	Image []byte `json:"image"`
	Mode  string `json:"mode,omitempty"`
}

// streamEvent is pushed to the client: one per engine completion, then a
// final event carrying the merged result.
type streamEvent struct {
	Type    string              `json:"type"` // "engine", "result", "error"
	Script  ocr.Script          `json:"script,omitempty"`
	Regions int                 `json:"regions,omitempty"`
	Error   string              `json:"error,omitempty"`
	Result  *pipeline.RegionSet `json:"result,omitempty"`
}

// handleOCRStream upgrades to WebSocket, reads one request, and streams
// per-engine completion events followed by the merged region set.
func (s *Server) handleOCRStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	var req streamRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(streamEvent{Type: "error", Error: "invalid request: " + err.Error()})
		return
	}

	mode := pipeline.AutoParallel
	if req.Mode != "" {
		parsed, err := pipeline.ParseMode(req.Mode)
		if err != nil {
			_ = conn.WriteJSON(streamEvent{Type: "error", Error: err.Error()})
			return
		}
		mode = parsed
	}

	if len(req.Image) == 0 {
		_ = conn.WriteJSON(streamEvent{Type: "error", Error: "empty image payload"})
		return
	}
	img, err := utils.DecodeImage(bytes.NewReader(req.Image))
	if err != nil {
		_ = conn.WriteJSON(streamEvent{Type: "error", Error: err.Error()})
		return
	}

	// Engine tasks finish concurrently; writes to the connection must not.
	var writeMu sync.Mutex
	push := func(ev streamEvent) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.WriteJSON(ev)
	}

	start := time.Now()
	result, err := s.pipeline.ProcessWithProgress(r.Context(), img, mode,
		func(script ocr.Script, blocks []ocr.Block, taskErr error) {
			ev := streamEvent{Type: "engine", Script: script, Regions: len(blocks)}
			if taskErr != nil {
				ev.Error = taskErr.Error()
			}
			push(ev)
		})
	if err != nil {
		ocrRequestsTotal.WithLabelValues(mode.String(), "error").Inc()
		push(streamEvent{Type: "error", Error: err.Error()})
		return
	}

	ocrRequestsTotal.WithLabelValues(mode.String(), "success").Inc()
	ocrProcessingDuration.WithLabelValues(mode.String()).Observe(time.Since(start).Seconds())
	ocrRegionsMerged.WithLabelValues(mode.String()).Observe(float64(len(result.Regions)))

	push(streamEvent{Type: "result", Result: result})
}
