package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LoaderMetrics records per-resource outcomes of the aggregation loaders.
type LoaderMetrics struct {
	loadDuration     *prometheus.HistogramVec
	resourceDuration *prometheus.HistogramVec
	failures         *prometheus.CounterVec
	defaulted        *prometheus.CounterVec
}

// NewLoaderMetrics registers the loader metrics on the provided registerer.
func NewLoaderMetrics(reg prometheus.Registerer) *LoaderMetrics {
	if reg == nil {
		return &LoaderMetrics{}
	}
	loadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asset_load_duration_seconds",
		Help:    "Duration of a whole aggregation load in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"loader", "outcome"})
	resourceDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asset_resource_duration_seconds",
		Help:    "Duration of a single backend resource fetch in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"loader", "resource"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_resource_failures_total",
		Help: "Backend resource fetches that failed.",
	}, []string{"loader", "resource"})
	defaulted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_resource_defaulted_total",
		Help: "Resources replaced by their static default in a best-effort load.",
	}, []string{"resource"})
	reg.MustRegister(loadDuration, resourceDuration, failures, defaulted)
	return &LoaderMetrics{
		loadDuration:     loadDuration,
		resourceDuration: resourceDuration,
		failures:         failures,
		defaulted:        defaulted,
	}
}

// ObserveLoad records how long a complete load took and whether it succeeded.
func (m *LoaderMetrics) ObserveLoad(loader string, duration time.Duration, err error) {
	if m == nil || m.loadDuration == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.loadDuration.WithLabelValues(normalizeLabel(loader), outcome).Observe(duration.Seconds())
}

// ObserveResource records the duration of one resource fetch.
func (m *LoaderMetrics) ObserveResource(loader, resource string, duration time.Duration) {
	if m == nil || m.resourceDuration == nil {
		return
	}
	m.resourceDuration.WithLabelValues(normalizeLabel(loader), normalizeLabel(resource)).Observe(duration.Seconds())
}

// IncFailure counts a failed resource fetch.
func (m *LoaderMetrics) IncFailure(loader, resource string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(loader), normalizeLabel(resource)).Inc()
}

// IncDefaulted counts a resource that fell back to its default value.
func (m *LoaderMetrics) IncDefaulted(resource string) {
	if m == nil || m.defaulted == nil {
		return
	}
	m.defaulted.WithLabelValues(normalizeLabel(resource)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
