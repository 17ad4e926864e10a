package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/compdash/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler that writes 404 then tries 200", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.WriteHeader(http.StatusOK)
		}, "mw_test")
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		Convey("Then the first status should reach the client and be counted as an error", func() {
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			found := false
			for _, f := range families {
				if f.GetName() != "compdash_widgets_errors_by_endpoint_total" {
					continue
				}
				for _, m := range f.GetMetric() {
					for _, l := range m.GetLabel() {
						if l.GetName() == "endpoint" && l.GetValue() == "mw_test" {
							found = true
						}
					}
				}
			}
			So(found, ShouldBeTrue)
		})
	})

	Convey("Given status codes", t, func() {
		Convey("Then they should classify by range", func() {
			typ, sev, ok := classifyStatus(http.StatusServiceUnavailable)
			So([]string{typ, sev}, ShouldResemble, []string{"server_error", "high"})
			So(ok, ShouldBeTrue)

			typ, _, _ = classifyStatus(http.StatusNotFound)
			So(typ, ShouldEqual, "not_found")

			typ, sev, _ = classifyStatus(http.StatusBadRequest)
			So([]string{typ, sev}, ShouldResemble, []string{"client_error", "medium"})

			_, _, ok = classifyStatus(http.StatusOK)
			So(ok, ShouldBeFalse)
		})
	})
}
