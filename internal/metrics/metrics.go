// Package metrics exposes prometheus collectors for the HTTP layer and the chirp domain.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chirps"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	chirpsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chirps",
			Name:      "created_total",
			Help:      "Total number of chirps posted.",
		},
	)

	reactionsSet = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reactions",
			Name:      "set_total",
			Help:      "Total number of reactions created or changed, by type.",
		},
		[]string{"type"},
	)

	commentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comments",
			Name:      "created_total",
			Help:      "Total number of comments posted.",
		},
	)

	notificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "Total number of notifications created, by type.",
		},
		[]string{"type"},
	)

	notificationsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "purged_total",
			Help:      "Total number of read notifications removed by retention.",
		},
	)

	// WebsocketConnections tracks open notification streams
	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Current number of open notification streams.",
		},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Dashboard cache lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Total number of scheduled job runs.",
		},
		[]string{"job", "success"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Duration of scheduled job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"job"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		chirpsCreated,
		reactionsSet,
		commentsCreated,
		notificationsCreated,
		notificationsPurged,
		WebsocketConnections,
		cacheLookups,
		jobRuns,
		jobDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
// Requests are labelled by chi route pattern so path parameters do not explode cardinality.
func InstrumentHandler(metricsPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == metricsPath {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			httpInFlight.Inc()
			defer httpInFlight.Dec()

			next.ServeHTTP(rec, r)

			route := routePattern(r)
			method := strings.ToUpper(r.Method)

			httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		})
	}
}

func RecordChirpCreated() {
	chirpsCreated.Inc()
}

func RecordReaction(reactionType string) {
	reactionsSet.WithLabelValues(reactionType).Inc()
}

func RecordCommentCreated() {
	commentsCreated.Inc()
}

func RecordNotificationCreated(notificationType string) {
	notificationsCreated.WithLabelValues(notificationType).Inc()
}

func RecordNotificationsPurged(n int64) {
	if n > 0 {
		notificationsPurged.Add(float64(n))
	}
}

// RecordCacheLookup records a dashboard cache result: "hit", "miss" or "error"
func RecordCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// RecordJobRun records metrics for a scheduled job run.
func RecordJobRun(job string, duration time.Duration, success bool) {
	if job == "" {
		job = "unknown"
	}
	if duration <= 0 {
		duration = time.Millisecond
	}
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
