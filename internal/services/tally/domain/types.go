// Package domain holds the search tally contracts shared by the feed and the tally worker
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is one served search, written to the analytics store
type Event struct {
	ID        uuid.UUID
	Kind      string
	Term      string
	Principal int64 // 0 for anonymous
	HasGeo    bool
	RadiusKm  float64
	Results   int
	Elapsed   time.Duration
	At        time.Time
}

// PopularInput selects the most searched terms of a kind
type PopularInput struct {
	Kind  string `query:"kind" json:"kind" validate:"required,oneof=services local-jobs used-products" example:"services"`
	Limit int    `query:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=50" example:"10"`
}

// PopularTerm is a term with its accumulated hit count
type PopularTerm struct {
	Term       string    `json:"term"`
	Hits       int64     `json:"hits"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
