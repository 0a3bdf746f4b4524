package httpkit

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var apiVersion = regexp.MustCompile(`^v[1-9][0-9]*$`)

// MountAPI mounts mount under /api/{version}; mw wraps that scope only
// version must look like v1, v2...; anything else is a wiring bug and panics
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	version = strings.Trim(version, "/")
	if !apiVersion.MatchString(version) {
		panic(fmt.Sprintf("httpkit: bad api version %q", version))
	}
	r.Route("/api/"+version, func(api Router) {
		api.Use(mw...)
		mount(api)
	})
}

// MountAPIV1 mounts the v1 api
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
