package telemetry

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RunsTotal counts completed benchmark runs.
	RunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shaderbench_runs_total",
		Help: "Completed benchmark runs.",
	})

	// FramesRenderedTotal counts rendered frames across all runs.
	FramesRenderedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shaderbench_frames_rendered_total",
		Help: "Frames rendered across all runs.",
	})

	// TilesDispatchedTotal counts kernel tile invocations.
	TilesDispatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shaderbench_tiles_dispatched_total",
		Help: "Kernel tile invocations across all frames.",
	})

	// FrameSeconds observes per-frame dispatch wall-clock time.
	FrameSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shaderbench_frame_seconds",
		Help:    "Wall-clock time of one full frame dispatch.",
		Buckets: prometheus.ExponentialBuckets(1e-4, 2, 16),
	})
)

// StartMetricsServer exposes Prometheus metrics over HTTP. It blocks, so
// callers run it in a goroutine.
func StartMetricsServer(addr string) error {
	http.Handle("/metrics", promhttp.Handler())
	slog.Info("Starting metrics server", "addr", addr)
	return http.ListenAndServe(addr, nil)
}
