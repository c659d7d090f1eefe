package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"climate-server/internal/logging"
	"climate-server/internal/observability"
)

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
	unmatchedRoute     = "unmatched"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// requestID returns the caller's X-Request-ID when it is usable, otherwise a
// fresh UUID.
func requestID(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" && len(id) <= maxRequestIDLength {
		return id
	}
	return uuid.NewString()
}

// requestLogger tags each request with an id, logs it once served and feeds
// the HTTP metrics. The route label is the pattern the mux matched, which the
// mux records on the request it was handed.
func requestLogger(metrics *observability.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := requestID(r)
		w.Header().Set(requestIDHeader, id)
		logger := logging.FromContext(r.Context()).With("request_id", id)
		r = r.WithContext(logging.WithLogger(r.Context(), logger))

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		elapsed := time.Since(start)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sr.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", sr.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}
