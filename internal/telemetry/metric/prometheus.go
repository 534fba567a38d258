package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "xpconnect"

// Skip reasons recorded by RecordSkipped.
const (
	ReasonCaptureUnavailable = "capture_unavailable"
	ReasonOversize           = "oversize"
	ReasonLockUnavailable    = "lock_unavailable"
	ReasonChannelClosed      = "channel_closed"
	ReasonError              = "error"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	Ticks           prometheus.Counter
	CaptureFailures prometheus.Counter
	Published       prometheus.Counter
	Skipped         *prometheus.CounterVec
	PayloadBytes    prometheus.Gauge
	PublishDuration prometheus.Histogram
}

// NewRegistry creates a registry with the flight loop series and the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Flight loop callbacks received.",
		}),
		CaptureFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_failures_total",
			Help:      "Ticks where the simulator data interface was not ready.",
		}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_total",
			Help:      "Frames written to the shared region.",
		}),
		Skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_total",
			Help:      "Ticks that did not publish, by reason.",
		}, []string{"reason"}),
		PayloadBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "payload_bytes",
			Help:      "Size of the last encoded frame.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_seconds",
			Help:      "Time spent in one flight loop callback.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Ticks,
		r.CaptureFailures,
		r.Published,
		r.Skipped,
		r.PayloadBytes,
		r.PublishDuration,
	)
	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Register adds a custom collector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// IncTick counts one flight loop callback.
func (r *Registry) IncTick() {
	r.Ticks.Inc()
}

// IncCaptureFailure counts a tick without simulator data.
func (r *Registry) IncCaptureFailure() {
	r.CaptureFailures.Inc()
}

// RecordPublished counts a frame of size bytes written to the region.
func (r *Registry) RecordPublished(size int) {
	r.Published.Inc()
	r.PayloadBytes.Set(float64(size))
}

// RecordSkipped counts a tick that did not publish.
func (r *Registry) RecordSkipped(reason string) {
	r.Skipped.WithLabelValues(reason).Inc()
}

// ObservePublishDuration records how long a callback took.
func (r *Registry) ObservePublishDuration(seconds float64) {
	r.PublishDuration.Observe(seconds)
}
