package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"fintrack/internal/log"
)

type contextKey struct{}

// Middleware assigns a request ID to every request and emits structured
// start and completion log records.
type Middleware struct {
	logger *log.Logger
}

// NewMiddleware creates a trace middleware writing through the given logger.
func NewMiddleware(logger *log.Logger) *Middleware {
	return &Middleware{logger: logger.WithComponent(log.ComponentTrace)}
}

// Handler wraps next with request tracing.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := NewRequestID()

		ctx := context.WithValue(r.Context(), contextKey{}, requestID)
		reqLogger := m.logger.With(log.FieldRequestID, requestID)
		ctx = log.IntoContext(ctx, reqLogger)
		r = r.WithContext(ctx)

		reqLogger.InfoContext(ctx, "request started",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldQuery, r.URL.RawQuery,
			log.FieldClientIP, clientIP(r))

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		level := slog.LevelInfo
		switch {
		case rw.status >= 500:
			level = slog.LevelError
		case rw.status >= 400:
			level = slog.LevelWarn
		}

		reqLogger.Logger.Log(ctx, level, "request completed",
			log.FieldComponent, log.ComponentTrace,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.status,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldSuccess, rw.status < 400)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// NewRequestID generates a unique identifier for request correlation.
func NewRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(buf)
}

// RequestID extracts the request ID from the context, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
