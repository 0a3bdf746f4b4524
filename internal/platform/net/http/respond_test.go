package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "bazaar/internal/platform/errors"
	phttp "bazaar/internal/platform/net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func serve(t *testing.T, h phttp.Handler, method, body string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, "/x", strings.NewReader(body))
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	chimw.RequestID(http.HandlerFunc(h)).ServeHTTP(rec, req)

	var env phttp.Envelope
	if rec.Code != http.StatusNoContent {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v body=%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestHandle_Envelope(t *testing.T) {
	cases := []struct {
		name     string
		resp     phttp.Response
		status   int
		wantCode perr.ErrorCode
	}{
		{"ok", phttp.OK(map[string]int{"n": 1}), http.StatusOK, 0},
		{"zero status", phttp.Response{Body: "x"}, http.StatusOK, 0},
		{"no content", phttp.NoContent(), http.StatusNoContent, 0},
		{"validation", phttp.Error(perr.Validationf("lat out of range")), http.StatusBadRequest, perr.ErrorCodeValidation},
		{"foreign error", phttp.Error(errors.New("boom")), http.StatusInternalServerError, perr.CodeOf(errors.New("boom"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := serve(t, phttp.Handle(func(*http.Request) phttp.Response { return tc.resp }), http.MethodGet, "")
			if rec.Code != tc.status {
				t.Fatalf("status = %d want %d", rec.Code, tc.status)
			}
			if tc.status == http.StatusNoContent {
				if rec.Body.Len() != 0 {
					t.Fatalf("204 with body %q", rec.Body.String())
				}
				return
			}
			if env.StatusCode != tc.status || env.RequestID != "req-1" || env.Code != tc.wantCode {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestHandle_Headers(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Status: http.StatusOK, Body: 1, Header: http.Header{"X-Feed-Mode": {"geo"}}}
	})
	rec, _ := serve(t, h, http.MethodGet, "")
	if rec.Header().Get("X-Feed-Mode") != "geo" {
		t.Fatalf("headers = %v", rec.Header())
	}
}

type echoIn struct {
	Term string `json:"term" validate:"max=5"`
}

func TestJSONHandler(t *testing.T) {
	h := phttp.JSONHandler(func(_ *http.Request, in echoIn) (any, error) {
		if in.Term == "fail" {
			return nil, perr.Unavailablef("db down")
		}
		return in.Term, nil
	})

	rec, env := serve(t, h, http.MethodPost, `{"term":"sofa"}`)
	if rec.Code != http.StatusOK || env.Data != "sofa" {
		t.Fatalf("ok path = %d %+v", rec.Code, env)
	}

	rec, env = serve(t, h, http.MethodPost, `{"term":"sofa bed"}`)
	if rec.Code != http.StatusBadRequest || env.Code != perr.ErrorCodeValidation {
		t.Fatalf("validation path = %d %+v", rec.Code, env)
	}

	rec, _ = serve(t, h, http.MethodPost, `{"term":"fail"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("handler error path = %d", rec.Code)
	}

	rec, env = serve(t, h, http.MethodPost, `{"nope":1}`)
	if rec.Code != http.StatusBadRequest || env.Code != perr.ErrorCodeJSON {
		t.Fatalf("unknown field = %d %+v", rec.Code, env)
	}
}

func TestNoBodyHandler_PassesResponse(t *testing.T) {
	h := phttp.NoBodyHandler(func(*http.Request) (any, error) { return phttp.NoContent(), nil })
	rec, _ := serve(t, h, http.MethodGet, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}
