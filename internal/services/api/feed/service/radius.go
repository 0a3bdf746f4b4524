package service

import (
	"context"
	"math"

	"bazaar/internal/core/cursor"
	"bazaar/internal/services/api/feed/repo"
)

// Policy is the radius widening schedule of geo feeds
type Policy struct {
	InitialKm float64
	StepKm    float64
	CapKm     float64
}

// DefaultPolicy widens from 50 km by 30 km up to 200 km
var DefaultPolicy = Policy{InitialKm: 50, StepKm: 30, CapKm: 200}

// start is the first radius to try; a cursor never shrinks the radius of its sequence
func (p Policy) start(pos *cursor.Position) float64 {
	r := p.InitialKm
	if pos != nil && pos.Radius > r {
		r = pos.Radius
	}
	return math.Min(r, p.CapKm)
}

func (p Policy) maxIterations(start float64) int {
	if p.StepKm <= 0 || start >= p.CapKm {
		return 1
	}
	return int(math.Ceil((p.CapKm-start)/p.StepKm)) + 1
}

type fetchFunc func(ctx context.Context, radiusKm float64) ([]repo.RawRow, error)

// searched is what the controller settled on
type searched struct {
	rows     []repo.RawRow
	radiusKm float64
	widened  int
}

// search runs fetch once for non-geo feeds; geo feeds widen until pageSize rows or the cap
func (p Policy) search(ctx context.Context, geo bool, start float64, pageSize int, fetch fetchFunc) (searched, error) {
	if !geo {
		rows, err := fetch(ctx, 0)
		return searched{rows: rows}, err
	}

	out := searched{radiusKm: start}
	for i, n := 0, p.maxIterations(start); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		rows, err := fetch(ctx, out.radiusKm)
		if err != nil {
			return out, err
		}
		out.rows = rows
		if len(rows) >= pageSize || out.radiusKm >= p.CapKm || i == n-1 {
			break
		}
		out.radiusKm = math.Min(out.radiusKm+p.StepKm, p.CapKm)
		out.widened++
	}
	return out, nil
}
