package service

import (
	"bazaar/internal/core/cursor"
	"bazaar/internal/core/geo"
	"bazaar/internal/core/ranking"
	"bazaar/internal/services/api/feed/domain"
)

// query is the resolved shape of one feed call, fixed before the first store round trip
type query struct {
	kind     domain.Kind
	mode     ranking.Mode
	origin   *geo.Point
	term     string
	pos      *cursor.Position // nil on the first page
	pageSize int
	viewer   int64
}

// plan builds the page query for one radius; Limit over-fetches by one row to detect a next page
func plan(q query, radiusKm float64) domain.QuerySpec {
	spec := domain.QuerySpec{
		Kind:   q.kind,
		Mode:   q.mode,
		Limit:  q.pageSize + 1,
		Viewer: q.viewer,
	}
	if q.mode.Geo() {
		spec.Origin = q.origin
		spec.RadiusKm = radiusKm
	}
	if q.mode.Search() {
		spec.Search = q.term
	}
	if q.pos != nil {
		after := q.pos.Signal.Project(q.mode)
		spec.After = &after
	}
	return spec
}
