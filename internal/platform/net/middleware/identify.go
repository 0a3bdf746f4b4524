package middleware

import (
	"net/http"
	"strconv"
	"strings"

	perr "bazaar/internal/platform/errors"
	"bazaar/internal/platform/logger"
	pnet "bazaar/internal/platform/net"
	"bazaar/internal/platform/store"
)

// ViewerHeader carries the signed in user id set by the edge proxy
const ViewerHeader = "X-User-ID"

// Identify reads the viewer header and threads the viewer and request id into
// the contexts used by handlers, logs and query tracing
// A missing header is an anonymous viewer; a malformed one is rejected.
func Identify(write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqID := pnet.RequestID(ctx)

			var viewer int64
			if raw := strings.TrimSpace(r.Header.Get(ViewerHeader)); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					status, body := pnet.Error(perr.WithField(perr.Validationf("invalid %s header", ViewerHeader), "viewer"), reqID)
					write(w, status, body)
					return
				}
				viewer = id
				ctx = pnet.WithViewer(ctx, id)
				ctx = store.WithPrincipal(ctx, id)
			}

			principal := ""
			if viewer > 0 {
				principal = strconv.FormatInt(viewer, 10)
			}
			ctx = logger.WithRequest(ctx, reqID, principal)
			ctx = store.WithRequestID(ctx, reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
