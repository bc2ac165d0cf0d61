package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/mosaic/internal/pipeline"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, s.pipeline.Info())
}

// handleOCR accepts a multipart form with an "image" file and an optional
// "mode" field, runs the pipeline, and returns the merged region set.
// An undecodable image is a 400; "no text found" is an empty 200 result —
// the two are never conflated.
func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form: " + err.Error()})
		return
	}

	mode := pipeline.AutoParallel
	if m := r.FormValue("mode"); m != "" {
		parsed, err := pipeline.ParseMode(m)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		mode = parsed
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing image file"})
		return
	}
	defer func() { _ = file.Close() }()

	start := time.Now()
	rs, err := s.pipeline.ProcessReader(r.Context(), file, mode)
	if err != nil {
		ocrRequestsTotal.WithLabelValues(mode.String(), "error").Inc()
		if errors.Is(err, pipeline.ErrImageDecode) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	ocrRequestsTotal.WithLabelValues(mode.String(), "success").Inc()
	ocrProcessingDuration.WithLabelValues(mode.String()).Observe(time.Since(start).Seconds())
	ocrRegionsMerged.WithLabelValues(mode.String()).Observe(float64(len(rs.Regions)))

	writeJSON(w, http.StatusOK, rs)
}
