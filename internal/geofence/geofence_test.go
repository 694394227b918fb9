package geofence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
		delta    float64
	}{
		{
			name:     "same point",
			a:        Point{Latitude: 40.730610, Longitude: -73.935242},
			b:        Point{Latitude: 40.730610, Longitude: -73.935242},
			expected: 0,
			delta:    0.001,
		},
		{
			name:     "hundredth of a degree on the equator",
			a:        Point{Latitude: 0, Longitude: 0},
			b:        Point{Latitude: 0, Longitude: 0.01},
			expected: 1112,
			delta:    1,
		},
		{
			name:     "tokyo to osaka",
			a:        Point{Latitude: 35.6762, Longitude: 139.6503},
			b:        Point{Latitude: 34.6937, Longitude: 135.5023},
			expected: 392000,
			delta:    2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), tt.delta)
		})
	}
}

func TestIsWithin(t *testing.T) {
	center := Point{Latitude: 35.7031509, Longitude: 139.7745439}
	point := Point{Latitude: 35.7041509, Longitude: 139.7745439}

	d := Distance(point, center)

	zone := Zone{Name: "office", Latitude: center.Latitude, Longitude: center.Longitude, Radius: d}
	assert.True(t, IsWithin(point, zone), "boundary distance counts as inside")

	zone.Radius = math.Nextafter(d, 0)
	assert.False(t, IsWithin(point, zone))
}

func TestIsWithin_OutsideRadius(t *testing.T) {
	// ~1112m from the center, radius only 500m.
	zone := Zone{Name: "hq", Latitude: 0, Longitude: 0.01, Radius: 500}
	assert.False(t, IsWithin(Point{Latitude: 0, Longitude: 0}, zone))
}

func TestFindContainingZone(t *testing.T) {
	zones := []Zone{
		{Name: "far", Latitude: 10, Longitude: 10, Radius: 100},
		{Name: "first-match", Latitude: 0, Longitude: 0, Radius: 2000},
		{Name: "also-contains", Latitude: 0, Longitude: 0.01, Radius: 2000},
	}

	zone := FindContainingZone(Point{Latitude: 0, Longitude: 0}, zones)
	if assert.NotNil(t, zone) {
		assert.Equal(t, "first-match", zone.Name, "ties break on input order")
	}

	assert.Nil(t, FindContainingZone(Point{Latitude: 50, Longitude: 50}, zones))
	assert.Nil(t, FindContainingZone(Point{Latitude: 0, Longitude: 0}, nil))
}
