// Package server exposes the REST boundary of the analysis service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/report"
)

const maxBodyBytes = 1 << 20

// Server routes analysis requests to the report service and serves casebook
// lookups straight from the store.
type Server struct {
	store   *casebook.Store
	reports *report.Service
	logger  *zap.Logger
}

func New(store *casebook.Store, reports *report.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, reports: reports, logger: logger}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.instrument("analyze", s.handleAnalyze))
	mux.HandleFunc("/api/cases/", s.instrument("case_details", s.handleCaseDetails))
	mux.HandleFunc("/api/refresh-data", s.instrument("refresh", s.handleRefresh))
	mux.HandleFunc("/api/stats", s.instrument("stats", s.handleStats))
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// instrument wraps a handler with request counting and duration metrics.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(sw.status)).Inc()
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cases_loaded": s.store.Count(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if err := validateCandidate(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var candidate casebook.CandidateProfile
	if err := json.Unmarshal(body, &candidate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	rep, err := s.reports.Generate(r.Context(), &candidate)
	switch {
	case errors.Is(err, report.ErrNoCases):
		writeError(w, http.StatusNotFound, "no similar cases available")
		return
	case errors.Is(err, report.ErrNarrativeFailed):
		writeError(w, http.StatusServiceUnavailable, "analysis generation is currently unavailable")
		return
	case err != nil:
		s.logger.Error("analyze request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if rep.Competitiveness == nil || rep.SchoolRecommendations == nil {
		reportsDegraded.Inc()
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleCaseDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/cases/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid case id")
		return
	}

	s.store.EnsureLoaded(r.Context())
	cases := s.store.GetByIDs([]int64{id})
	if len(cases) == 0 {
		writeError(w, http.StatusNotFound, "case not found")
		return
	}
	writeJSON(w, http.StatusOK, cases[0])
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// The reload runs detached from the request so slow fetches do not
	// hold the client. Readers keep the previous snapshot meanwhile.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.store.Refresh(ctx); err != nil {
			s.logger.Error("background refresh failed", zap.Error(err))
			return
		}
		casebookSize.Set(float64(s.store.Count()))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "refresh started"})
}

type statsResponse struct {
	TotalCases   int         `json:"total_cases"`
	Countries    []nameCount `json:"countries"`
	Universities []nameCount `json:"universities"`
	Majors       []nameCount `json:"majors"`
}

type nameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.store.EnsureLoaded(r.Context())
	cases := s.store.AllCases()

	countries := map[string]int{}
	universities := map[string]int{}
	majors := map[string]int{}
	for _, c := range cases {
		if c.AdmittedCountry != "" {
			countries[c.AdmittedCountry]++
		}
		if c.AdmittedUniversity != "" {
			universities[c.AdmittedUniversity]++
		}
		if c.MajorCategory != "" {
			majors[c.MajorCategory]++
		}
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalCases:   len(cases),
		Countries:    topCounts(countries, 10),
		Universities: topCounts(universities, 10),
		Majors:       topCounts(majors, 0),
	})
}

// topCounts returns counts sorted descending, ties broken by name. A zero
// limit keeps everything.
func topCounts(counts map[string]int, limit int) []nameCount {
	out := make([]nameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, nameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
