package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"musegate/internal/logger"
	"musegate/internal/metrics"
)

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags each request with an id, logs it at INFO and records
// the gateway request metrics.
func RequestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			ctx := logger.ContextWithID(r.Context(), uuid.NewString())
			next.ServeHTTP(rec, r.WithContext(ctx))

			took := time.Since(start)
			log.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"query":  r.URL.Query(),
				"remote": r.RemoteAddr,
				"status": rec.status,
				"took":   took,
			}).Info("http.request")

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.URL.Path).Observe(took.Seconds())
		})
	}
}
