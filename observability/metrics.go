package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	labelBaseURL    = "base_url"
	labelEndpoint   = "endpoint"
	labelStatusCode = "status_code"
)

// Metrics owns the process-wide collector registry. Create it once before the
// server starts and share it; all collectors are safe for concurrent use.
type Metrics struct {
	Registry *prometheus.Registry

	requestCount     *prometheus.CounterVec
	responseCount    *prometheus.CounterVec
	responseDuration *prometheus.HistogramVec
	registryDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_count",
			Help: "http request count",
		}, []string{labelEndpoint}),
		responseCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_response_count",
			Help: "http response count",
		}, []string{labelEndpoint, labelStatusCode}),
		responseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_duration_seconds",
			Help:    "http response duration seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{labelEndpoint, labelStatusCode}),
		registryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "api request duration seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{labelBaseURL, labelEndpoint, labelStatusCode}),
	}
}

// ObserveRegistryRequest records the duration of one upstream registry call.
func (m *Metrics) ObserveRegistryRequest(baseURL, endpoint string, statusCode int, elapsed time.Duration) {
	m.registryDuration.
		WithLabelValues(baseURL, endpoint, strconv.Itoa(statusCode)).
		Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text exposition format.
func (m *Metrics) Handler(log *logrus.Logger) http.Handler {
	opts := promhttp.HandlerOpts{}
	if log != nil {
		opts.ErrorLog = log
	}
	return promhttp.HandlerFor(m.Registry, opts)
}
