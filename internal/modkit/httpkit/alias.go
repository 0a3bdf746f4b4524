// Package httpkit is what modules import for routing and handlers
// It keeps modules off internal/platform/net/http and chi.
package httpkit

import (
	"net/http"

	pnet "bazaar/internal/platform/net"
	phttp "bazaar/internal/platform/net/http"
	"bazaar/internal/platform/net/http/bind"
)

type (
	// Router is the platform router seam
	Router = phttp.Router

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Response is the return-style handler result
	Response = phttp.Response
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response whose status comes from err
func Error(err error) Response { return phttp.Error(err) }

// PostJSON mounts a handler taking a validated JSON body of T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// Get mounts a body-less handler
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.NoBodyHandler(h))
}

// GetQuery mounts a handler taking validated query parameters bound into T
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, phttp.NoBodyHandler(func(req *http.Request) (any, error) {
		in, err := bind.ParseQuery[T](req)
		if err != nil {
			return nil, err
		}
		return h(req, in)
	}))
}

// Viewer returns the signed in user for r; false means anonymous
func Viewer(r *http.Request) (int64, bool) { return pnet.Viewer(r.Context()) }
