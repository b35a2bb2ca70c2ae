// Package observability provides request logging and metrics middleware.
package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/louisbranch/murmur/internal/platform/metrics"
	"github.com/louisbranch/murmur/internal/platform/requestctx"
	"github.com/louisbranch/murmur/internal/services/web/platform/httpx"
)

type routeKey struct{}

type routeHolder struct {
	pattern string
}

// Route labels requests served by next with pattern for logs and metrics.
func Route(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if holder, ok := r.Context().Value(routeKey{}).(*routeHolder); ok {
			holder.pattern = pattern
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one entry per request and records request metrics.
// Either dependency may be nil.
func RequestLogger(logger logrus.FieldLogger, m *metrics.Metrics) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			done := m.TrackInFlight()
			defer done()
			holder := &routeHolder{}
			recorder := httpx.NewStatusRecorder(w)
			r = r.WithContext(context.WithValue(r.Context(), routeKey{}, holder))

			next.ServeHTTP(recorder, r)

			status := recorder.Status
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(started)
			m.ObserveRequest(holder.pattern, r.Method, status, elapsed)
			if logger == nil {
				return
			}
			entry := logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      holder.pattern,
				"status":     status,
				"bytes":      recorder.Bytes,
				"latency":    elapsed.String(),
				"request_id": requestctx.RequestIDFromContext(r.Context()),
			})
			if status >= http.StatusInternalServerError {
				entry.Error("http request")
				return
			}
			entry.Info("http request")
		})
	}
}
