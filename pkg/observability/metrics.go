package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PublishedBatches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_batches_published_total",
		Help: "Total number of update batches published to the broker",
	})

	PublishedChanges = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_changes_published_total",
		Help: "Total number of cell changes published across all batches",
	})

	PublishRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_publish_retries_total",
		Help: "Total number of publish attempts retried after a send error",
	})

	PublishErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_publish_errors_total",
		Help: "Total number of batches that failed after exhausting retries",
	})

	PublishLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "grid_publish_latency_seconds",
		Help:    "Time to publish a single batch including retries",
		Buckets: prometheus.LinearBuckets(0.001, 0.01, 10),
	})

	AppliedBatches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_batches_applied_total",
		Help: "Total number of update batches applied to the in-memory grid",
	})

	AppliedCells = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_cells_applied_total",
		Help: "Total number of cell changes applied to the in-memory grid",
	})

	DecodeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_decode_failures_total",
		Help: "Total number of consumed payloads that failed to decode",
	})
)

func Init() {
	prometheus.MustRegister(
		PublishedBatches, PublishedChanges, PublishRetries, PublishErrors,
		PublishLatency, AppliedBatches, AppliedCells, DecodeFailures,
	)
}

// Expose /metrics HTTP handler on the given port
func ServeMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
}
