package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tsengine_request_duration_seconds",
			Help:    "HTTP request duration by path and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "status"},
	)
	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsengine_requests_total",
			Help: "Total HTTP requests by path and status.",
		},
		[]string{"path", "status"},
	)
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware tags each request with an ID and records duration,
// status and path both in the log and in Prometheus. Timing instrumentation
// lives here, outside the engine's contract.
func LoggingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			recorder.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			status := strconv.Itoa(recorder.status)

			requestDuration.WithLabelValues(r.URL.Path, status).Observe(duration.Seconds())
			requestTotal.WithLabelValues(r.URL.Path, status).Inc()

			logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     recorder.status,
				"duration":   duration,
			}).Info("Request handled")
		})
	}
}
