package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one access log entry per request. Excluded paths, such
// as probes and scrapes, are logged at debug level only.
func RequestLogger(log *logrus.Logger, ex Exclusions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			entry := log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     statusOf(ww),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).Round(time.Microsecond).String(),
				"remote":     r.RemoteAddr,
				"request_id": middleware.GetReqID(r.Context()),
			})

			if ex.Excluded(r.URL.Path) {
				entry.Debug("request")
				return
			}
			entry.Info("request")
		})
	}
}
