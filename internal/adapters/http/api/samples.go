package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/compdash/internal/adapters/download"
	"github.com/okian/compdash/internal/domain/sample"
)

// SamplesHandler lists and serves the sample upload files.
type SamplesHandler struct {
	deps SampleDependencies
}

// NewSamplesHandler creates a new samples handler.
func NewSamplesHandler(deps SampleDependencies) *SamplesHandler {
	return &SamplesHandler{deps: deps}
}

type sampleSummary struct {
	Name     string   `json:"name"`
	Filename string   `json:"filename"`
	Columns  []string `json:"columns"`
	Rows     int      `json:"rows"`
	Href     string   `json:"href"`
}

// HandleList handles GET /samples requests.
func (h *SamplesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	datasets := h.deps.Samples(r.Context())
	out := make([]sampleSummary, 0, len(datasets))
	for _, d := range datasets {
		out = append(out, sampleSummary{
			Name:     d.Name,
			Filename: d.Filename,
			Columns:  d.Columns,
			Rows:     len(d.Rows),
			Href:     "/samples/" + d.Name,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDownload handles GET /samples/{name} requests. The CSV is sent as an
// attachment named after the dataset's file name.
func (h *SamplesHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/samples/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	tw := &trackingWriter{ResponseWriter: w}
	err := h.deps.DownloadSample(r.Context(), name, download.NewHTTPSaver(tw))
	switch {
	case err == nil:
	case tw.wroteHeader:
		// The attachment is already on the wire; nothing more can be said.
	case errors.Is(err, sample.ErrUnknownDataset):
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: sample %q", ErrNotFound, name))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// trackingWriter remembers whether the status line has been sent.
type trackingWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (tw *trackingWriter) WriteHeader(code int) {
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *trackingWriter) Write(b []byte) (int, error) {
	tw.wroteHeader = true
	return tw.ResponseWriter.Write(b)
}
