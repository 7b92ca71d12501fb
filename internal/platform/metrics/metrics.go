package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the board's Prometheus metrics.
type MetricsManager struct {
	Registry          *prometheus.Registry
	ListingMutations  *prometheus.CounterVec
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
}

func NewMetricsManager(serviceName string) *MetricsManager {
	namespace := strings.ReplaceAll(serviceName, "-", "_")
	registry := prometheus.NewRegistry()

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_mutations_total",
		Help:      "Total number of successful listing mutations by operation.",
	}, []string{"op"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of API requests by transport, method and status code.",
	}, []string{"transport", "method", "code"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by transport and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"transport", "method"})

	registry.MustRegister(
		mutations,
		requests,
		latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:          registry,
		ListingMutations:  mutations,
		APIRequestsTotal:  requests,
		APIRequestLatency: latency,
	}
}

func (m *MetricsManager) ListingMutated(op string) {
	m.ListingMutations.WithLabelValues(op).Inc()
}

func (m *MetricsManager) ObserveRequest(transport, method, code string, elapsed time.Duration) {
	m.APIRequestsTotal.WithLabelValues(transport, method, code).Inc()
	m.APIRequestLatency.WithLabelValues(transport, method).Observe(elapsed.Seconds())
}

// NewMetricsServer returns the /metrics server for port, or nil when port is
// empty.
func NewMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) *http.Server {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
