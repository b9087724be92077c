package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sproutcrm/sprout-sdk/pkg/composables"
)

type statusCaptureWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
}

func (w *statusCaptureWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusCaptureWriter) Write(b []byte) (int, error) {
	if !w.statusWritten {
		w.statusCode = http.StatusOK
		w.statusWritten = true
	}
	return w.ResponseWriter.Write(b)
}

// LogRequests logs one line per completed request with duration and status.
// Must run after ProvideParams so the request-scoped logger exists.
func LogRequests() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			capture := &statusCaptureWriter{ResponseWriter: w}

			next.ServeHTTP(capture, r)

			logger := composables.UseLogger(r.Context())
			logger.WithField("status", capture.statusCode).
				WithField("duration", time.Since(start).String()).
				Info("request completed")
		})
	}
}
