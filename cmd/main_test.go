package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	app "github.com/okian/compdash/internal/app"
	"github.com/okian/compdash/internal/config"
	"github.com/okian/compdash/pkg/logger"
	"github.com/okian/compdash/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			_ = os.Setenv("COMPDASH_ADDR", ":8080")
			_ = os.Setenv("COMPDASH_RAIL_DANGER_ABOVE", "90")
			defer func() {
				_ = os.Unsetenv("COMPDASH_ADDR")
				_ = os.Unsetenv("COMPDASH_RAIL_DANGER_ABOVE")
			}()

			cfg, err := config.Load(context.Background())

			convey.Convey("Then the overrides should reach the service", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

				svc := app.New(serviceOptions(cfg, logger.Discard())...)
				th := svc.DefaultThresholds()
				convey.So(th.Danger, convey.ShouldEqual, 90.0)
				convey.So(th.Caution, convey.ShouldEqual, 60.0)
				convey.So(th.Good, convey.ShouldEqual, 40.0)
			})
		})

		convey.Convey("When configuring metrics from the environment", func() {
			_ = os.Setenv("COMPDASH_METRICS_PREFIX", "edge")
			_ = os.Setenv("COMPDASH_METRICS_REFRESH_INTERVAL", "2s")
			_ = os.Setenv("COMPDASH_RAIL_GOOD_ABOVE", "45")
			defer func() {
				_ = os.Unsetenv("COMPDASH_METRICS_PREFIX")
				_ = os.Unsetenv("COMPDASH_METRICS_REFRESH_INTERVAL")
				_ = os.Unsetenv("COMPDASH_RAIL_GOOD_ABOVE")
			}()

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			metrics.Configure(metricsOptions(cfg)...)
			defer metrics.Configure()

			metrics.RecordRailRender("good", 46)

			convey.Convey("Then the global manager should follow the config", func() {
				convey.So(metrics.RefreshInterval(), convey.ShouldEqual, 2*time.Second)

				families, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				var bounds []float64
				for _, f := range families {
					if f.GetName() == "compdash_widgets_edge_rail_value" {
						for _, b := range f.GetMetric()[0].GetHistogram().GetBucket() {
							bounds = append(bounds, b.GetUpperBound())
						}
					}
				}
				convey.So(bounds, convey.ShouldContain, 45.0)
				convey.So(bounds, convey.ShouldContain, 75.0)
			})
		})

		convey.Convey("When building the HTTP server", func() {
			srv := newHTTPServer(":0", http.NewServeMux())

			convey.Convey("Then the timeouts should be set", func() {
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})
		})
	})
}

func TestRoutes(t *testing.T) {
	convey.Convey("Given the full mux", t, func() {
		ctx := context.Background()
		svc := app.New()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, svc)

		convey.Convey("Then every surface should answer", func() {
			for _, path := range []string{
				"/healthz", "/stats", "/dashboard", "/rail?value=50", "/widgets/rail?value=50",
				"/widgets/policy/pass", "/policy/chips", "/samples", "/samples/market",
				"/docs/", "/api-docs", "/openapi.yaml",
			} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When running the system metrics updater until cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.Convey("Then it should return without panicking", func() {
				convey.So(func() {
					startSystemMetricsUpdater(ctx, 10*time.Millisecond)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When running the service metrics updater until cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.Convey("Then it should return without panicking", func() {
				convey.So(func() {
					startServiceMetricsUpdater(ctx, app.New())
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When updating metrics directly", func() {
			convey.Convey("Then it should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(app.New()) }, convey.ShouldNotPanic)
			})
		})
	})
}
