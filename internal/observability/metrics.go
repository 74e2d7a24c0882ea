package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timer_service",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, matched route and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "timer_service",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and matched route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	timerOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timer_service",
		Name:      "operations_total",
		Help:      "Timer lifecycle operations by outcome.",
	}, []string{"operation", "outcome"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, timerOperations)
}

// RecordOperation counts one lifecycle operation.
func RecordOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	timerOperations.WithLabelValues(operation, outcome).Inc()
}

// HTTPMetrics records request counts and latency. Unmatched paths share the
// "unmatched" route label.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
