package repo

import (
	"context"

	"bazaar/internal/platform/store"
	"bazaar/internal/services/tally/domain"
)

// EventsTable is the clickhouse table for search events
const EventsTable = "search_events"

// Events writes search events to clickhouse
type Events struct {
	ch store.Clickhouse
}

// NewEvents wraps ch
func NewEvents(ch store.Clickhouse) *Events { return &Events{ch: ch} }

// Write inserts evs as one batch in column order
// event_id, kind, term, principal_id, has_geo, radius_km, results, elapsed_ms, at
func (e *Events) Write(ctx context.Context, evs []domain.Event) error {
	if len(evs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(evs))
	for _, ev := range evs {
		var geo uint8
		if ev.HasGeo {
			geo = 1
		}
		rows = append(rows, []any{
			ev.ID,
			ev.Kind,
			ev.Term,
			ev.Principal,
			geo,
			ev.RadiusKm,
			uint32(max(ev.Results, 0)),
			uint32(ev.Elapsed.Milliseconds()),
			ev.At.UTC(),
		})
	}
	return e.ch.Insert(ctx, EventsTable, rows)
}
