package repo

import (
	"fmt"
	"strconv"
	"strings"

	"bazaar/internal/core/geo"
	"bazaar/internal/core/ranking"
	perr "bazaar/internal/platform/errors"
	"bazaar/internal/services/api/feed/domain"
)

// columns of the ranked CTE a ranking field maps to
var fieldColumn = map[ranking.Field]string{
	ranking.FieldDistance:  "b.distance",
	ranking.FieldRelevance: "b.relevance",
	ranking.FieldCreatedAt: "b.created_at",
	ranking.FieldID:        "b.id",
}

// args collects positional bind values
type args struct{ vals []any }

func (a *args) add(v any) string {
	a.vals = append(a.vals, v)
	return "$" + strconv.Itoa(len(a.vals))
}

// Build translates spec into one SQL statement and its bind values
//
// The result set is ordered by spec.Mode.Keys and, with spec.After set, holds only rows ranking
// strictly after it. Every row carries its images and, for services, its plans as json arrays.
func Build(spec domain.QuerySpec) (string, []any, error) {
	cat, ok := catalogs[spec.Kind]
	if !ok {
		return "", nil, perr.NotFoundf("unknown listing kind %d", spec.Kind)
	}
	if !spec.Mode.Valid() {
		return "", nil, perr.InvalidArgf("unknown ranking mode %d", spec.Mode)
	}
	if spec.Mode.Geo() && spec.Origin == nil {
		return "", nil, perr.InvalidArgf("mode %s needs an origin", spec.Mode)
	}
	if spec.Mode.Search() && spec.Search == "" {
		return "", nil, perr.InvalidArgf("mode %s needs a search term", spec.Mode)
	}
	if spec.Limit <= 0 {
		return "", nil, perr.InvalidArgf("limit must be positive, got %d", spec.Limit)
	}

	var a args
	var sb strings.Builder

	relevance := "0::float8"
	if spec.Mode.Search() {
		q := a.add(spec.Search)
		parts := make([]string, len(cat.search))
		for i, col := range cat.search {
			parts[i] = fmt.Sprintf("coalesce(ts_rank(to_tsvector('english', coalesce(l.%s, '')), plainto_tsquery('english', %s)), 0)", col, q)
		}
		relevance = "(" + strings.Join(parts, " + ") + ")::float8"
	}

	distance := "0::float8"
	if spec.Mode.Geo() {
		lat, lon := a.add(spec.Origin.Lat), a.add(spec.Origin.Lon)
		distance = fmt.Sprintf(`(2 * %v * asin(sqrt(
      power(sin(radians(l.latitude - %[2]s::float8) / 2), 2)
      + cos(radians(%[2]s::float8)) * cos(radians(l.latitude))
      * power(sin(radians(l.longitude - %[3]s::float8) / 2), 2))))::float8`, geo.EarthRadiusKm, lat, lon)
	}

	attrs := make([]string, len(cat.attrs))
	for i, col := range cat.attrs {
		attrs[i] = fmt.Sprintf("'%s', l.%s", col, col)
	}

	fmt.Fprintf(&sb, `WITH base AS (
  SELECT l.id, l.public_id, l.owner_id, l.created_at, l.latitude, l.longitude, l.country, l.state,
    json_build_object(%s) AS attrs,
    %s AS relevance,
    %s AS distance
  FROM %s l
  WHERE l.status = 'active'`, strings.Join(attrs, ", "), relevance, distance, cat.table)
	if spec.Mode.Geo() {
		sb.WriteString(" AND l.latitude IS NOT NULL AND l.longitude IS NOT NULL")
	}
	sb.WriteString("\n)\n")

	bookmarked := "false"
	if spec.Viewer > 0 {
		bookmarked = fmt.Sprintf("EXISTS (SELECT 1 FROM %s bm WHERE bm.%s = b.id AND bm.user_id = %s)",
			cat.bookmarks.table, cat.bookmarks.fk, a.add(spec.Viewer))
	}
	plans := "'[]'::json"
	if cat.plans != nil {
		plans = "pl.items"
	}

	fmt.Fprintf(&sb, `SELECT b.id, b.public_id, b.owner_id, b.created_at, b.latitude, b.longitude,
  coalesce(b.country, ''), coalesce(b.state, ''), b.attrs, b.relevance, b.distance,
  u.user_id, coalesce(u.first_name, ''), coalesce(u.last_name, ''), coalesce(u.profile_pic_key, ''), u.is_online,
  %s AS bookmarked, im.items AS images, %s AS plans
FROM base b
JOIN users u ON u.user_id = b.owner_id
LEFT JOIN LATERAL (
  SELECT coalesce(json_agg(json_build_object('id', i.id, 'key', i.image_key, 'created_at', i.created_at)
    ORDER BY i.created_at DESC, i.id DESC), '[]'::json) AS items
  FROM %s i WHERE i.%s = b.id
) im ON true
`, bookmarked, plans, cat.images.table, cat.images.fk)
	if cat.plans != nil {
		fmt.Fprintf(&sb, `LEFT JOIN LATERAL (
  SELECT coalesce(json_agg(json_build_object('id', p.id, 'name', p.name, 'description', p.description,
    'price', p.price, 'currency', p.currency, 'duration_days', p.duration_days, 'created_at', p.created_at)
    ORDER BY p.created_at ASC, p.id ASC), '[]'::json) AS items
  FROM %s p WHERE p.%s = b.id
) pl ON true
`, cat.plans.table, cat.plans.fk)
	}

	var where []string
	if spec.Mode.Search() {
		where = append(where, "b.relevance > 0")
	}
	if spec.Mode.Geo() {
		where = append(where, "b.distance <= "+a.add(spec.RadiusKm))
	}
	if spec.After != nil {
		where = append(where, seek(spec.Mode, spec.After.Project(spec.Mode).Canonical(), &a))
	}
	if len(where) > 0 {
		sb.WriteString("WHERE " + strings.Join(where, "\n  AND ") + "\n")
	}

	keys := spec.Mode.Keys()
	order := make([]string, len(keys))
	for i, k := range keys {
		order[i] = fieldColumn[k.Field] + " " + k.Dir.String()
	}
	sb.WriteString("ORDER BY " + strings.Join(order, ", ") + "\n")
	sb.WriteString("LIMIT " + a.add(spec.Limit))

	return sb.String(), a.vals, nil
}

// seek renders ranking.Seek as SQL; each anchor value is bound once
func seek(m ranking.Mode, anchor ranking.Signal, a *args) string {
	bound := map[ranking.Field]string{}
	ref := func(f ranking.Field) string {
		if p, ok := bound[f]; ok {
			return p
		}
		p := a.add(anchor.Value(f))
		bound[f] = p
		return p
	}

	terms := ranking.Seek(m)
	ors := make([]string, len(terms))
	for i, t := range terms {
		ands := make([]string, 0, len(t.Equal)+1)
		for _, k := range t.Equal {
			ands = append(ands, fieldColumn[k.Field]+" = "+ref(k.Field))
		}
		ands = append(ands, fieldColumn[t.Strict.Field]+" "+t.Strict.Op()+" "+ref(t.Strict.Field))
		ors[i] = "(" + strings.Join(ands, " AND ") + ")"
	}
	return "(" + strings.Join(ors, "\n    OR ") + ")"
}
