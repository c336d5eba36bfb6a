package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ysam020/assessment/pkg/logger"
)

// loggedWriter records the status and payload size of a response as it is
// written, so the access log line can report both.
type loggedWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func newLoggedWriter(w http.ResponseWriter) *loggedWriter {
	return &loggedWriter{ResponseWriter: w, status: http.StatusOK}
}

func (lw *loggedWriter) WriteHeader(code int) {
	lw.status = code
	lw.ResponseWriter.WriteHeader(code)
}

func (lw *loggedWriter) Write(b []byte) (int, error) {
	n, err := lw.ResponseWriter.Write(b)
	lw.bytes += n
	return n, err
}

func (lw *loggedWriter) Flush() {
	if f, ok := lw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// correlationID returns the inbound X-Correlation-ID, minting a fresh one
// when the client did not send any.
func correlationID(r *http.Request) string {
	if id := r.Header.Get("X-Correlation-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}

// RequestLogging emits one structured log line per request with method, path,
// status, duration, and size. The correlation ID is stored on the request
// context and always echoed back on the response.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			corrID := correlationID(r)
			ctx := logger.WithCorrelationID(r.Context(), corrID)
			r = r.WithContext(ctx)
			w.Header().Set("X-Correlation-ID", corrID)

			lw := newLoggedWriter(w)
			next.ServeHTTP(lw, r)

			l.InfoContext(ctx, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", lw.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", lw.bytes),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("correlation_id", corrID),
			)
		})
	}
}
