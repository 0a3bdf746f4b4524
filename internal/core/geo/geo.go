// Package geo holds the coordinate type shared by the feed and the great-circle math used to
// rank listings by distance
package geo

import (
	"math"

	perr "bazaar/internal/platform/errors"
)

// EarthRadiusKm is the mean earth radius used by both the in-process and the SQL distance
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks the point lies on the globe
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "latitude %v out of range [-90,90]", p.Lat), "lat")
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "longitude %v out of range [-180,180]", p.Lon), "lon")
	}
	return nil
}

// FromPair builds a point from an optional lat/lon pair
// both nil yields (nil, nil); exactly one nil is a validation error
func FromPair(lat, lon *float64) (*Point, error) {
	switch {
	case lat == nil && lon == nil:
		return nil, nil
	case lat == nil || lon == nil:
		return nil, perr.WithField(perr.New(perr.ErrorCodeValidation, "lat and lon must be given together"), "lat")
	}
	p := Point{Lat: *lat, Lon: *lon}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// DistanceKm returns the haversine great-circle distance between a and b in kilometres
func DistanceKm(a, b Point) float64 {
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	// clamp guards rounding past 1 for antipodal points
	if s > 1 {
		s = 1
	}
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(s))
}
