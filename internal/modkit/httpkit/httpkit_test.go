package httpkit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bazaar/internal/modkit/httpkit"
	phttp "bazaar/internal/platform/net/http"
	"bazaar/internal/platform/net/middleware"
	"bazaar/internal/platform/testkit"
)

type termIn struct {
	Term string `json:"term" validate:"required,max=20"`
}

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	srv := phttp.NewServer(phttp.ServerOptions{Addr: ":0"})
	httpkit.MountAPIV1(srv.Router(), httpkit.CommonStack(httpkit.StackOptions{}), func(api httpkit.Router) {
		api.Route("/echo", func(r httpkit.Router) {
			httpkit.PostJSON(r, "/", func(_ *http.Request, in termIn) (any, error) { return in.Term, nil })
			httpkit.Get(r, "/viewer", func(r *http.Request) (any, error) {
				id, ok := httpkit.Viewer(r)
				if !ok {
					return httpkit.NoContent(), nil
				}
				return id, nil
			})
		})
	})
	return srv.Handler()
}

func TestMountAPIV1_CommonStack(t *testing.T) {
	h := newAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"term":"plumber"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data != "plumber" || env.RequestID == "" {
		t.Fatalf("envelope = %+v", env)
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatal("no-cache headers missing")
	}
}

func TestViewerThroughStack(t *testing.T) {
	h := newAPI(t)

	cases := []struct {
		header string
		status int
		body   string
	}{
		{"", http.StatusNoContent, ""},
		{"17", http.StatusOK, `"data":17`},
		{"x", http.StatusBadRequest, `"status_code":400`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/echo/viewer", nil)
		if tc.header != "" {
			req.Header.Set(middleware.ViewerHeader, tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.status || !strings.Contains(rec.Body.String(), tc.body) {
			t.Fatalf("header %q: %d %s", tc.header, rec.Code, rec.Body.String())
		}
	}
}

func TestPostJSON_ValidationEnvelope(t *testing.T) {
	h := newAPI(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMountAPI_RejectsBadVersion(t *testing.T) {
	srv := phttp.NewServer(phttp.ServerOptions{Addr: ":0"})
	for _, v := range []string{"", "1", "v0", "beta"} {
		testkit.MustPanicWith(t, "bad api version", func() {
			httpkit.MountAPI(srv.Router(), v, nil, func(httpkit.Router) {})
		})
	}
	httpkit.MountAPI(srv.Router(), "/v2/", nil, func(api httpkit.Router) {
		httpkit.Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("v2 status = %d", rec.Code)
	}
}
