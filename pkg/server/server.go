// Package server exposes the analysis pipeline as a JSON API for the
// dashboard frontend. The dataset is built once at startup; the window
// and narrative selection arrive as query parameters on every request
// and are never stored server-side.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/spread"
)

// Server provides the HTTP API over one immutable dataset.
type Server struct {
	dataset *spread.Dataset
	log     logrus.FieldLogger
	port    int
}

// New creates a new HTTP server.
func New(dataset *spread.Dataset, log logrus.FieldLogger, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		dataset: dataset,
		log:     log,
		port:    port,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/narratives", s.handleNarratives)
	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/distribution", s.handleDistribution)
	mux.HandleFunc("/api/v1/timeseries", s.handleTimeSeries)
	mux.HandleFunc("/api/v1/communities", s.handleCommunities)
	mux.HandleFunc("/api/v1/observations", s.handleObservations)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.WithField("addr", addr).Info("narrspread server listening")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleNarratives lists the distinct narrative names present in the
// corpus, sorted, plus the dataset's observed day range. The frontend
// populates its selector and slider from this.
func (s *Server) handleNarratives(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":    s.dataset.Narratives,
		"count":   len(s.dataset.Narratives),
		"min_day": s.dataset.MinDay,
		"max_day": s.dataset.MaxDay,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	window, err := s.parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	windowed := spread.FilterWindow(s.dataset.Events, window)
	writeJSON(w, http.StatusOK, map[string]any{
		"window": window,
		"data":   spread.Summarize(windowed),
	})
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	window, err := s.parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows := spread.Distribution(spread.FilterWindow(s.dataset.Events, window))
	writeJSON(w, http.StatusOK, map[string]any{
		"window": window,
		"data":   rows,
		"count":  len(rows),
	})
}

// handleTimeSeries serves the selected narrative's growth series. It runs
// over the full event set on purpose: the growth chart shows the
// narrative's whole life regardless of the display window.
func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	name := s.parseNarrative(r)
	series := spread.TimeSeries(s.dataset.Events, name)
	peak, _ := spread.PeakDay(s.dataset.Events, name)

	writeJSON(w, http.StatusOK, map[string]any{
		"narrative": name,
		"data":      series,
		"count":     len(series),
		"peak_day":  peak,
	})
}

func (s *Server) handleCommunities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	window, err := s.parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	name := s.parseNarrative(r)
	windowed := spread.FilterWindow(s.dataset.Events, window)
	rows := spread.TopCommunities(windowed, name, 10)

	writeJSON(w, http.StatusOK, map[string]any{
		"window":    window,
		"narrative": name,
		"data":      rows,
		"count":     len(rows),
	})
}

func (s *Server) handleObservations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	window, err := s.parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	name := s.parseNarrative(r)
	windowed := spread.FilterWindow(s.dataset.Events, window)
	obs := spread.BuildObservations(s.dataset.Events, windowed, name)

	writeJSON(w, http.StatusOK, map[string]any{
		"window":    window,
		"narrative": name,
		"data":      obs,
	})
}

// parseWindow reads min_day/max_day query params, defaulting each missing
// bound to the dataset's observed range. Out-of-range windows pass
// through; the filter just returns nothing for them.
func (s *Server) parseWindow(r *http.Request) (spread.Window, error) {
	window := s.dataset.FullWindow()

	if v := r.URL.Query().Get("min_day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return spread.Window{}, fmt.Errorf("invalid min_day %q", v)
		}
		window.MinDay = n
	}
	if v := r.URL.Query().Get("max_day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return spread.Window{}, fmt.Errorf("invalid max_day %q", v)
		}
		window.MaxDay = n
	}
	return window, nil
}

func (s *Server) parseNarrative(r *http.Request) string {
	if v := r.URL.Query().Get("narrative"); v != "" {
		return v
	}
	return s.dataset.DefaultNarrative()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
