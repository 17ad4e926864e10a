package api

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/compdash/internal/adapters/http/widget"
	"github.com/okian/compdash/internal/domain/severity"
)

// RailHandler handles metric rail requests.
type RailHandler struct {
	deps RailDependencies
}

// NewRailHandler creates a new rail handler.
func NewRailHandler(deps RailDependencies) *RailHandler {
	return &RailHandler{deps: deps}
}

// HandleRail handles GET /rail requests.
func (h *RailHandler) HandleRail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	reading, err := h.parseReading(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Rail(r.Context(), reading))
}

// HandleRailWidget handles GET /widgets/rail requests.
func (h *RailHandler) HandleRailWidget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	reading, err := h.parseReading(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = widget.RenderRail(w, h.deps.Rail(r.Context(), reading))
}

// parseReading reads value, label, value_label and the optional thresholds.
// Thresholds that are left out fall back to the configured defaults.
func (h *RailHandler) parseReading(q url.Values) (severity.MetricReading, error) {
	value, ok, err := floatParam(q, "value")
	if err != nil {
		return severity.MetricReading{}, err
	}
	if !ok {
		return severity.MetricReading{}, fmt.Errorf("%w: missing value", ErrBadRequest)
	}

	reading := severity.MetricReading{
		Value:      value,
		Label:      strings.TrimSpace(q.Get("label")),
		ValueLabel: q.Get("value_label"),
	}

	t := h.deps.DefaultThresholds()
	overridden := false
	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"danger", &t.Danger},
		{"caution", &t.Caution},
		{"good", &t.Good},
	} {
		v, set, err := floatParam(q, p.key)
		if err != nil {
			return severity.MetricReading{}, err
		}
		if set {
			*p.dst = v
			overridden = true
		}
	}
	if overridden {
		reading.Thresholds = &t
	}
	return reading, nil
}

// floatParam parses a finite number. NaN and infinities cannot be encoded as
// JSON, so they are rejected along with malformed input.
func floatParam(q url.Values, key string) (float64, bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("%w: %s must be a finite number", ErrBadRequest, key)
	}
	return v, true, nil
}
