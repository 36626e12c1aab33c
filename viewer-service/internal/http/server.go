package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"gridfeed/viewer-service/internal/state"
)

// Server exposes the materialized grid for inspection.
type Server struct {
	grid   *state.Grid
	logger zerolog.Logger
}

func NewServer(g *state.Grid, logger zerolog.Logger) *Server {
	return &Server{grid: g, logger: logger}
}

// Handler builds the route table; split out so tests can drive it directly.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/grid", s.gridHandler)
	mux.HandleFunc("/grid/cell", s.cellHandler)
	return mux
}

func (s *Server) Run(port string) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	s.logger.Info().Str("port", port).Msg("viewer http listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error().Err(err).Msg("viewer http server stopped")
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) gridHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.grid.Snapshot())
}

func (s *Server) cellHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	row, err := strconv.Atoi(r.URL.Query().Get("row"))
	if err != nil {
		http.Error(w, "invalid row", http.StatusBadRequest)
		return
	}
	col, err := strconv.Atoi(r.URL.Query().Get("col"))
	if err != nil {
		http.Error(w, "invalid col", http.StatusBadRequest)
		return
	}

	cell, ok := s.grid.Cell(row, col)
	if !ok {
		http.Error(w, "cell not set", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, cell)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
