// Package http serves the listing feeds
package http

import (
	stdhttp "net/http"

	"bazaar/internal/core/geo"
	"bazaar/internal/modkit/httpkit"
	"bazaar/internal/services/api/feed/domain"
)

// Register mounts one POST route per listing kind
func Register(r httpkit.Router, svc domain.ServicePort) {
	for _, k := range domain.Kinds {
		h := &handler{kind: k, svc: svc}
		httpkit.PostJSON[domain.FeedInput](r, "/"+k.Slug(), h.feed)
	}
}

type handler struct {
	kind domain.Kind
	svc  domain.ServicePort
}

// swagger:route POST /feeds/{kind} Feeds feedPage
// @Summary One page of a listing feed
// @Description Ranked by distance when a location is known, by relevance when searching, newest first otherwise.
// @Tags Feeds
// @Accept json
// @Produce json
// @Param kind path string true "services | local-jobs | used-products"
// @Param X-User-ID header int false "signed in user, set by the gateway"
// @Param body body domain.FeedInput true "feed request"
// @Success 200 {object} domain.Page "ok"
// @Router /feeds/{kind} [post]
func (h *handler) feed(r *stdhttp.Request, in domain.FeedInput) (any, error) {
	origin, err := geo.FromPair(in.Lat, in.Lon)
	if err != nil {
		return nil, err
	}
	viewer, _ := httpkit.Viewer(r)
	return h.svc.Feed(r.Context(), domain.FeedRequest{
		Kind:     h.kind,
		Viewer:   viewer,
		Search:   in.Search,
		PageSize: in.PageSize,
		Cursor:   in.Cursor,
		Origin:   origin,
	})
}
