package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/shelfwise/shelfwise-server/internal/logger"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr with port", "203.0.113.7:52100", nil, "203.0.113.7"},
		{"ipv6 remote addr", "[2001:db8::1]:443", nil, "2001:db8::1"},
		{"remote addr without port", "203.0.113.7", nil, "203.0.113.7"},
		{"forwarding headers ignored", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "198.51.100.4", "X-Real-IP": "198.51.100.9"}, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: logger.New(logger.Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})}

	h := requestIDMiddleware(s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), `"msg":"panic recovered"`)
	assert.Contains(t, buf.String(), `"panic":"boom"`)
	assert.Contains(t, buf.String(), rec.Header().Get(middleware.RequestIDHeader))
}

func TestRecoverer_AbortHandlerPropagates(t *testing.T) {
	s := &Server{logger: logger.Nop()}
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRequestLogger_StoresRequestInfo(t *testing.T) {
	s := &Server{logger: logger.Nop()}

	var got requestInfo
	h := s.requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestInfoFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/books/bk_1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, requestInfo{Method: http.MethodDelete, Path: "/books/bk_1"}, got)
}
