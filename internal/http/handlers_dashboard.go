package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pledgeboard/internal/dashboard"
)

// render recomputes the view for a year selection. Concurrent requests for
// the same selection share one computation; nothing is kept afterwards.
func (s *Server) render(years []int) dashboard.ViewModel {
	v, _, _ := s.flights.Do(yearsKey(years), func() (any, error) {
		return dashboard.Render(s.table, years), nil
	})
	return v.(dashboard.ViewModel)
}

// handleDashboard renders the main dashboard page
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Years []int
	}{
		Years: s.table.Years(),
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard_page", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleYears returns the distinct pledge years present in the loaded data
func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	years := s.table.Years()
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, years)
}

// handleCharts returns all six figure specs for the current year selection
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	vm := s.render(parseYears(r))
	writeJSON(w, http.StatusOK, vm.Figures)
}

// handleSummary returns the yearly summary table rows
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	vm := s.render(parseYears(r))
	writeJSON(w, http.StatusOK, vm.Summary)
}

// handleAsk echoes the free-text question back. Placeholder: no retrieval or
// model call happens here.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(payload.Question)

	writeJSON(w, http.StatusOK, map[string]string{
		"answer": fmt.Sprintf("You asked: %s. (LLM integration pending)", question),
	})
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleReady performs readiness check: templates parsed and table loaded
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{"templates": "ok", "table": "ok"}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}
	if s.table.Len() == 0 {
		checks["table"] = "failed: joined table is empty"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{"status": status, "checks": checks})
}
