// Package ranking defines the total order of feed results and the keyset predicate that resumes it
//
// Every mode ends in created_at desc then id asc so two listings never compare equal.
// The ORDER BY and the seek predicate are both derived from Mode.Keys and must not be built any
// other way.
package ranking

import (
	"fmt"
	"time"
)

// Field names one component of a Signal
type Field uint8

const (
	FieldDistance Field = iota + 1
	FieldRelevance
	FieldCreatedAt
	FieldID
)

func (f Field) String() string {
	switch f {
	case FieldDistance:
		return "distance"
	case FieldRelevance:
		return "relevance"
	case FieldCreatedAt:
		return "created_at"
	case FieldID:
		return "id"
	default:
		return fmt.Sprintf("field(%d)", uint8(f))
	}
}

// Direction is the sort direction of a key
type Direction uint8

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Key is a field with its direction
type Key struct {
	Field Field
	Dir   Direction
}

// Op is the comparison operator meaning "ranks after" for this key
func (k Key) Op() string {
	if k.Dir == Desc {
		return "<"
	}
	return ">"
}

// Mode selects the ordering from which optional filters are active
type Mode uint8

const (
	ModeRecency Mode = iota + 1
	ModeRelevance
	ModeGeo
	ModeGeoRelevance
)

// ModeFor picks the mode for a request
func ModeFor(geo, search bool) Mode {
	switch {
	case geo && search:
		return ModeGeoRelevance
	case geo:
		return ModeGeo
	case search:
		return ModeRelevance
	default:
		return ModeRecency
	}
}

// Valid reports whether m is a known mode
func (m Mode) Valid() bool { return m >= ModeRecency && m <= ModeGeoRelevance }

// Geo reports whether distance is part of the order
func (m Mode) Geo() bool { return m == ModeGeo || m == ModeGeoRelevance }

// Search reports whether relevance is part of the order
func (m Mode) Search() bool { return m == ModeRelevance || m == ModeGeoRelevance }

func (m Mode) String() string {
	switch m {
	case ModeRecency:
		return "recency"
	case ModeRelevance:
		return "relevance"
	case ModeGeo:
		return "geo"
	case ModeGeoRelevance:
		return "geo_relevance"
	default:
		return "unknown"
	}
}

var (
	keysRecency      = []Key{{FieldCreatedAt, Desc}, {FieldID, Asc}}
	keysRelevance    = []Key{{FieldRelevance, Desc}, {FieldCreatedAt, Desc}, {FieldID, Asc}}
	keysGeo          = []Key{{FieldDistance, Asc}, {FieldCreatedAt, Desc}, {FieldID, Asc}}
	keysGeoRelevance = []Key{{FieldDistance, Asc}, {FieldRelevance, Desc}, {FieldCreatedAt, Desc}, {FieldID, Asc}}
)

// Keys returns the ordered sort keys for m; callers must not modify the result
func (m Mode) Keys() []Key {
	switch m {
	case ModeRelevance:
		return keysRelevance
	case ModeGeo:
		return keysGeo
	case ModeGeoRelevance:
		return keysGeoRelevance
	default:
		return keysRecency
	}
}

// Signal is the ranking tuple of one result
// Distance and Relevance are only meaningful when the mode includes them
type Signal struct {
	Distance  float64
	Relevance float64
	CreatedAt time.Time
	ID        int64
}

// Canonical truncates CreatedAt to the microsecond precision the store and the cursor keep
func (s Signal) Canonical() Signal {
	s.CreatedAt = s.CreatedAt.Truncate(time.Microsecond).UTC()
	return s
}

// Value returns the bind value of f
func (s Signal) Value(f Field) any {
	switch f {
	case FieldDistance:
		return s.Distance
	case FieldRelevance:
		return s.Relevance
	case FieldCreatedAt:
		return s.CreatedAt
	default:
		return s.ID
	}
}

// Project zeroes the fields m does not rank by
func (s Signal) Project(m Mode) Signal {
	if !m.Geo() {
		s.Distance = 0
	}
	if !m.Search() {
		s.Relevance = 0
	}
	return s
}

func cmpField(f Field, a, b Signal) int {
	switch f {
	case FieldDistance:
		return cmpFloat(a.Distance, b.Distance)
	case FieldRelevance:
		return cmpFloat(a.Relevance, b.Relevance)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Compare returns -1 when a ranks before b under m, 1 when after, 0 only for the same id
func Compare(m Mode, a, b Signal) int {
	for _, k := range m.Keys() {
		c := cmpField(k.Field, a, b)
		if k.Dir == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// After reports whether s ranks strictly after anchor under m
func After(m Mode, anchor, s Signal) bool { return Compare(m, s, anchor) > 0 }
