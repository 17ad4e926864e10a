package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/compdash/internal/adapters/http/widget"
	"github.com/okian/compdash/internal/domain/policy"
)

// PolicyHandler handles policy chip requests.
type PolicyHandler struct {
	deps PolicyDependencies
}

// NewPolicyHandler creates a new policy handler.
func NewPolicyHandler(deps PolicyDependencies) *PolicyHandler {
	return &PolicyHandler{deps: deps}
}

// HandleChips handles GET /policy/chips requests.
func (h *PolicyHandler) HandleChips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Chips(r.Context()))
}

// HandlePolicyWidget handles GET /widgets/policy/{status} requests.
func (h *PolicyHandler) HandlePolicyWidget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/widgets/policy/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	status, ok := policy.ParseStatus(name)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: policy status %q", ErrNotFound, name))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = widget.RenderBadge(w, widget.ChipBadge(policy.ChipFor(status)))
}
