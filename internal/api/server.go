// Package api serves the simulation engine over HTTP.
// POST /api/v1/simulate runs one paired-scenario simulation synchronously.
// GET endpoints expose presets and stored run history.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/talgya/coopsim/internal/config"
	"github.com/talgya/coopsim/internal/engine"
	"github.com/talgya/coopsim/internal/metrics"
	"github.com/talgya/coopsim/internal/params"
	"github.com/talgya/coopsim/internal/persistence"
	"github.com/talgya/coopsim/internal/results"
	"github.com/talgya/coopsim/internal/sampler"
)

const maxRequestBody = 1 << 20 // 1 MiB; parameter payloads are tiny

// Server serves the simulation API over HTTP.
type Server struct {
	Cfg *config.Config
	DB  *persistence.DB
	Log *slog.Logger
}

// Handler builds the routing table with CORS and rate limiting applied.
func (s *Server) Handler() http.Handler {
	simLimiter := NewRateLimiter(s.Cfg.RateLimitPerMin, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/simulate", RateLimitMiddleware(simLimiter, s.handleSimulate))
	mux.HandleFunc("/api/v1/presets", s.handlePresets)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/healthz", s.handleHealthz)

	return s.corsMiddleware(mux)
}

// ListenAndServe blocks serving the API until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.Cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info("HTTP API starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// corsMiddleware adds CORS headers for configured frontend origins. "*"
// allows any origin; localhost dev servers are always allowed.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowAll := false
	allowed := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range s.Cfg.CORSOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleSimulate runs one simulation synchronously. A cancelled request
// abandons the run at the next week boundary.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	req, preset, err := params.ParseRequest(raw)
	if err != nil {
		writeError(w, err)
		return
	}

	orch, err := engine.New(req, s.Log)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := orch.Run(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away; nothing to write.
			return
		}
		writeError(w, err)
		return
	}

	res := results.Assemble(out)
	if s.DB != nil {
		if err := s.DB.SaveRun(res, req, preset); err != nil {
			s.Log.Error("failed to persist run", "run_id", res.RunID, "error", err)
		}
	}
	writeJSON(w, res)
}

// handlePresets lists the built-in parameter presets with their full values.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	type presetEntry struct {
		Name   string              `json:"name"`
		Params params.ParameterSet `json:"params"`
	}

	names := params.PresetNames()
	entries := make([]presetEntry, 0, len(names))
	for _, name := range names {
		p, _ := params.Preset(name)
		entries = append(entries, presetEntry{Name: name, Params: p})
	}
	writeJSON(w, entries)
}

// handleHistory returns stored run summaries, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	limit := s.Cfg.MaxHistoryRuns
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= s.Cfg.MaxHistoryRuns {
			limit = n
		}
	}

	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		s.Log.Error("history query failed", "error", err)
		http.Error(w, "history query failed", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.RunRecord{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// writeError maps the engine's error taxonomy onto HTTP status codes:
// caller mistakes are 400, everything else is 500.
func writeError(w http.ResponseWriter, err error) {
	var cfgErr *params.ConfigurationError
	var sampErr *sampler.SamplingError
	var degErr *metrics.DegenerateInputError

	status := http.StatusInternalServerError
	if errors.As(err, &cfgErr) || errors.As(err, &sampErr) {
		status = http.StatusBadRequest
	} else if errors.As(err, &degErr) {
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// writeJSON writes a JSON response with appropriate headers.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
