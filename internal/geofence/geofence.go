// Package geofence decides whether a coordinate falls inside a circular zone.
package geofence

import "math"

// earthRadius in meters, for the haversine great-circle distance.
const earthRadius = 6371000.0

type Point struct {
	Latitude  float64
	Longitude float64
}

type Zone struct {
	Name      string
	Latitude  float64
	Longitude float64
	Radius    float64
}

// Distance returns the great-circle distance between two points in meters.
func Distance(a, b Point) float64 {
	φ1 := a.Latitude * math.Pi / 180.0
	φ2 := b.Latitude * math.Pi / 180.0
	Δφ := (b.Latitude - a.Latitude) * math.Pi / 180.0
	Δλ := (b.Longitude - a.Longitude) * math.Pi / 180.0

	h := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

// IsWithin reports whether point lies inside zone. A point exactly on the
// boundary counts as inside.
func IsWithin(point Point, zone Zone) bool {
	return Distance(point, Point{Latitude: zone.Latitude, Longitude: zone.Longitude}) <= zone.Radius
}

// FindContainingZone returns the first zone in input order containing point,
// or nil when none does. Overlapping zones are not disambiguated further.
func FindContainingZone(point Point, zones []Zone) *Zone {
	for i := range zones {
		if IsWithin(point, zones[i]) {
			return &zones[i]
		}
	}
	return nil
}
