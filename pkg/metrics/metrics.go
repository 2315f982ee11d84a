// Package metrics provides Prometheus instrumentation for liveserver.
//
// pkg/server records lifecycle transitions here on its own. Apps that want
// the HTTP metrics wire the middleware and the scrape endpoint themselves:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "liveserver"

// ─────────────────────────────────────────────
// Lifecycle metrics
// ─────────────────────────────────────────────

var (
	// ListenTotal counts Listen attempts by result ("ok" | "error").
	ListenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "listen_total",
			Help:      "Total number of listen attempts.",
		},
		[]string{"result"},
	)

	// StopTotal counts Stop calls that closed a listener, by result.
	StopTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "stop_total",
			Help:      "Total number of listener shutdowns.",
		},
		[]string{"result"},
	)

	// Bound is the number of servers currently accepting connections.
	Bound = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "server",
		Name:      "bound",
		Help:      "Number of servers currently bound to a port.",
	})

	// FetchDuration tracks Server.Fetch round trips.
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of Server.Fetch calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)
)

// ─────────────────────────────────────────────
// HTTP metrics
// ─────────────────────────────────────────────

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	ResponseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "Response body sizes in bytes.",
			Buckets:   []float64{100, 1_000, 10_000, 100_000, 1_000_000},
		},
		[]string{"method", "path"},
	)
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry holds every liveserver metric plus Go runtime and process collectors.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		ListenTotal,
		StopTotal,
		Bound,
		FetchDuration,
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		ResponseSize,
	)
}

// Register adds a collector to DefaultRegistry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// ─────────────────────────────────────────────
// Recording helpers
// ─────────────────────────────────────────────

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordListen counts a listen attempt and tracks the bound gauge.
func RecordListen(err error) {
	ListenTotal.WithLabelValues(result(err)).Inc()
	if err == nil {
		Bound.Inc()
	}
}

// RecordStop counts a shutdown. The listener is gone either way.
func RecordStop(err error) {
	StopTotal.WithLabelValues(result(err)).Inc()
	Bound.Dec()
}

// ObserveFetch records a fetch duration:
//
//	defer func() { metrics.ObserveFetch(start, err) }()
func ObserveFetch(start time.Time, err error) {
	FetchDuration.WithLabelValues(result(err)).Observe(time.Since(start).Seconds())
}

// ─────────────────────────────────────────────
// HTTP middleware
// ─────────────────────────────────────────────

type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Middleware records duration, total, in-flight and response size for every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; normalize in high-cardinality APIs

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
			ResponseSize.WithLabelValues(r.Method, path).Observe(float64(rr.size))
		})
	}
}

// Handler exposes DefaultRegistry for scraping.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
