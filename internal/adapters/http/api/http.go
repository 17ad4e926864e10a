// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/compdash/internal/adapters/download"
	"github.com/okian/compdash/internal/domain/policy"
	"github.com/okian/compdash/internal/domain/sample"
	"github.com/okian/compdash/internal/domain/severity"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RailDependencies
	PolicyDependencies
	SampleDependencies
}

// Server wires HTTP routes for the widget API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	railHandler      *RailHandler
	policyHandler    *PolicyHandler
	samplesHandler   *SamplesHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		railHandler:      NewRailHandler(deps),
		policyHandler:    NewPolicyHandler(deps),
		samplesHandler:   NewSamplesHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/rail", MetricsMiddleware(s.railHandler.HandleRail, "rail"))
	mux.HandleFunc("/widgets/rail", MetricsMiddleware(s.railHandler.HandleRailWidget, "widgets_rail"))
	mux.HandleFunc("/widgets/policy/", MetricsMiddleware(s.policyHandler.HandlePolicyWidget, "widgets_policy"))
	mux.HandleFunc("/policy/chips", MetricsMiddleware(s.policyHandler.HandleChips, "policy_chips"))
	mux.HandleFunc("/samples", MetricsMiddleware(s.samplesHandler.HandleList, "samples"))
	mux.HandleFunc("/samples/", MetricsMiddleware(s.samplesHandler.HandleDownload, "samples_download"))
}

// RailDependencies classifies metric readings.
type RailDependencies interface {
	Rail(ctx context.Context, r severity.MetricReading) severity.Rail
	DefaultThresholds() severity.Thresholds
}

// PolicyDependencies lists policy chips.
type PolicyDependencies interface {
	Chips(ctx context.Context) []policy.Entry
}

// SampleDependencies exposes the sample datasets.
type SampleDependencies interface {
	Samples(ctx context.Context) []sample.Dataset
	DownloadSample(ctx context.Context, name string, saver download.Saver) error
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
