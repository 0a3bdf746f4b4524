package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pnet "bazaar/internal/platform/net"
	"bazaar/internal/platform/net/middleware"

	"github.com/rs/zerolog"
)

func logged(t *testing.T, opt middleware.AccessLogOptions, h http.HandlerFunc, r *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	opt.Log = &l

	rec := httptest.NewRecorder()
	middleware.AccessLogZerolog(opt)(h).ServeHTTP(rec, r)
	if buf.Len() == 0 {
		return rec, nil
	}
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line %q: %v", buf.String(), err)
	}
	return rec, line
}

func TestAccessLog_Levels(t *testing.T) {
	tests := []struct {
		name   string
		opt    middleware.AccessLogOptions
		status int
		level  string
	}{
		{"ok at info", middleware.AccessLogOptions{}, http.StatusOK, "info"},
		{"client error at info", middleware.AccessLogOptions{}, http.StatusBadRequest, "info"},
		{"server error at error", middleware.AccessLogOptions{Slow: time.Nanosecond}, http.StatusServiceUnavailable, "error"},
		{"slow at warn", middleware.AccessLogOptions{Slow: time.Nanosecond}, http.StatusCreated, "warn"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(time.Microsecond)
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, "body")
			}
			rec, line := logged(t, tc.opt, h, httptest.NewRequest(http.MethodPost, "/api/v1/feeds/services", nil))
			if rec.Code != tc.status || rec.Body.String() != "body" {
				t.Fatalf("response altered: %d %q", rec.Code, rec.Body.String())
			}
			if line["level"] != tc.level || line["message"] != "request done" {
				t.Fatalf("line = %v", line)
			}
			if line["status"] != float64(tc.status) || line["bytes"] != float64(4) {
				t.Fatalf("line = %v", line)
			}
		})
	}
}

func TestAccessLog_ImplicitOKAndViewer(t *testing.T) {
	h := func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hi"))
		_, _ = w.Write([]byte("there"))
	}
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r = r.WithContext(pnet.WithViewer(r.Context(), 42))
	rec, line := logged(t, middleware.AccessLogOptions{}, h, r)
	if rec.Body.String() != "hithere" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if line["status"] != float64(200) || line["bytes"] != float64(7) || line["viewer"] != float64(42) {
		t.Fatalf("line = %v", line)
	}
}

func TestAccessLog_QuietPaths(t *testing.T) {
	h := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	_, line := logged(t, middleware.AccessLogOptions{Quiet: []string{"/metrics"}}, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if line != nil {
		t.Fatalf("quiet path logged: %v", line)
	}
}
