package speedrun

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "srcom"

// Metrics holds Prometheus collectors for API requests made by a Client
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	failures prometheus.Counter
}

// NewMetrics registers the request collectors against reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests by HTTP status code.",
		}, []string{"code"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests.",
			Buckets:   prometheus.DefBuckets,
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "transport_failures_total",
			Help:      "Requests that failed before a response was received.",
		}),
	}
}

func (m *Metrics) observe(code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(strconv.Itoa(code)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeFailure(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.failures.Inc()
	m.duration.Observe(elapsed.Seconds())
}
