package domain

import (
	"bazaar/internal/core/geo"
	"bazaar/internal/core/ranking"
)

// QuerySpec is one planned page query; the repo is its only translator to SQL
type QuerySpec struct {
	Kind     Kind
	Mode     ranking.Mode
	Origin   *geo.Point // set in geo modes
	RadiusKm float64    // geo modes: distance <= RadiusKm
	Search   string     // normalized; set in relevance modes
	After    *ranking.Signal
	Limit    int
	Viewer   int64
}
