package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bundlesize"

// PrometheusHooks implements every hook interface by recording Prometheus
// metrics in its own registry.
type PrometheusHooks struct {
	registry *prometheus.Registry

	annotations     *prometheus.CounterVec
	annotateEntries prometheus.Histogram
	annotateSeconds prometheus.Histogram

	cacheLookups *prometheus.CounterVec
	cacheWrites  *prometheus.CounterVec
	backoffs     *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpSeconds  *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewPrometheusHooks creates hooks registered in reg. A nil reg creates a
// fresh registry with the Go and process collectors.
func NewPrometheusHooks(reg *prometheus.Registry) *PrometheusHooks {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	h := &PrometheusHooks{
		registry: reg,
		annotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "annotations_total",
			Help: "Annotation passes by outcome.",
		}, []string{"status"}),
		annotateEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "annotation_entries",
			Help:    "Dependency entries per annotation pass.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		annotateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "annotation_duration_seconds",
			Help: "Duration of annotation passes.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_lookups_total",
			Help: "Cache lookups by key type and result (hit, miss, join).",
		}, []string{"key_type", "result"}),
		cacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_writes_total",
			Help: "Terminal cache writes by key type and outcome.",
		}, []string{"key_type", "outcome"}),
		backoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "backoff_short_circuits_total",
			Help: "Lookups answered from a recent failure without a fetch.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Outbound HTTP responses by host and status code.",
		}, []string{"host", "code"}),
		httpSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help: "Outbound HTTP request latency.",
		}, []string{"host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_errors_total",
			Help: "Outbound HTTP transport failures.",
		}, []string{"host"}),
	}

	reg.MustRegister(
		h.annotations, h.annotateEntries, h.annotateSeconds,
		h.cacheLookups, h.cacheWrites, h.backoffs,
		h.httpRequests, h.httpSeconds, h.httpErrors,
	)
	return h
}

// Registry returns the registry holding the metrics.
func (h *PrometheusHooks) Registry() *prometheus.Registry { return h.registry }

// Handler serves the registry in the Prometheus exposition format.
func (h *PrometheusHooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

func (h *PrometheusHooks) OnAnnotateStart(context.Context, string) {}

func (h *PrometheusHooks) OnAnnotateComplete(_ context.Context, _ string, entries int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.annotations.WithLabelValues(status).Inc()
	h.annotateEntries.Observe(float64(entries))
	h.annotateSeconds.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheJoin(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "join").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, failed bool) {
	outcome := "success"
	if failed {
		outcome = "error"
	}
	h.cacheWrites.WithLabelValues(keyType, outcome).Inc()
}

func (h *PrometheusHooks) OnBackoff(_ context.Context, keyType string) {
	h.backoffs.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	h.httpRequests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	h.httpSeconds.WithLabelValues(host).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpErrors.WithLabelValues(host).Inc()
}

var (
	_ AnnotateHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
