package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/shelfwise/shelfwise-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyRequestInfo contextKey = "request_info"

// requestInfo is what error logging needs to know about the current request.
type requestInfo struct {
	Method string
	Path   string
}

func requestInfoFrom(ctx context.Context) requestInfo {
	info, _ := ctx.Value(contextKeyRequestInfo).(requestInfo)
	return info
}

func requestID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

// requestIDMiddleware keeps a caller-supplied X-Request-Id or assigns a UUID,
// and echoes it on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger records method and path for later error logs and writes one
// line per completed request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := context.WithValue(r.Context(), contextKeyRequestInfo, requestInfo{
			Method: r.Method,
			Path:   r.URL.Path,
		})

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.Debug("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", requestID(ctx),
		)
	})
}

// recoverer turns a panic into the standard 500 envelope.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel is compared by identity, as net/http does
				panic(rec)
			}
			s.logger.Error("panic recovered",
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", requestID(r.Context()),
				"stack", string(debug.Stack()),
			)
			response.InternalError(w, s.logger.Logger)
		}()
		next.ServeHTTP(w, r)
	})
}
