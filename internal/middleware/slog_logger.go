// Package middleware provides HTTP middleware for the GlobeTrotter API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type logFieldsKey struct{}

// logFields is filled in by middleware further down the chain (RequireAuth)
// and read back by SlogLogger once the request has finished.
type logFields struct {
	userID string
}

func withLogFields(ctx context.Context) (context.Context, *logFields) {
	f := &logFields{}
	return context.WithValue(ctx, logFieldsKey{}, f), f
}

func recordUserID(ctx context.Context, userID string) {
	if f, ok := ctx.Value(logFieldsKey{}).(*logFields); ok {
		f.userID = userID
	}
}

// NewSlogLogger returns a middleware that logs each request as a structured
// line via the provided slog.Logger. It captures method, path, HTTP status,
// duration, the request ID set by chi's RequestID middleware and, for
// authenticated routes, the caller's user ID.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, fields := withLogFields(r.Context())

			// WrapResponseWriter intercepts WriteHeader so we can read the
			// status code after the downstream handler has run.
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(ctx),
			}
			if fields.userID != "" {
				attrs = append(attrs, "user_id", fields.userID)
			}
			log.InfoContext(ctx, "request", attrs...)
		})
	}
}
