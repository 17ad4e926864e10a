package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/compdash/pkg/metrics"
)

// MetricsMiddleware records request count and latency for endpoint. Responses
// of 400 and above are also counted as errors.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		ms := float64(time.Since(start).Microseconds()) / 1e3
		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, ms)

		errType, severity, failed := classifyStatus(rec.status)
		if !failed {
			return
		}
		metrics.RecordErrorByEndpoint(endpoint, r.Method, errType)
		metrics.RecordErrorByType(errType, severity)
		metrics.RecordErrorLatency("http", errType, ms)
	}
}

// classifyStatus maps a status code to an error type and severity. ok is
// false below 400.
func classifyStatus(status int) (errType, severity string, ok bool) {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", "high", true
	case status == http.StatusNotFound:
		return "not_found", "medium", true
	case status >= http.StatusBadRequest:
		return "client_error", "medium", true
	default:
		return "", "", false
	}
}

// statusRecorder keeps the first status written; an implicit 200 stays 200.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.written {
		s.status = code
		s.written = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.written = true
	return s.ResponseWriter.Write(b)
}
