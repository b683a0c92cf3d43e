// Package geo holds the small amount of spherical geometry the trip lookups need.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusMeters is the mean Earth radius used by the 2dsphere index.
const EarthRadiusMeters = 6378100.0

// Point is a WGS84 position.
type Point struct {
	Lng float64
	Lat float64
}

// Coordinates returns the point in [lng, lat] order, as stored on trips.
func (p Point) Coordinates() []float64 {
	return []float64{p.Lng, p.Lat}
}

// Validate checks that the point lies within longitude/latitude bounds.
func (p Point) Validate() error {
	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Lng)
	}
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Lat)
	}
	return nil
}

// FromCoordinates converts a stored [lng, lat] pair into a Point.
func FromCoordinates(c []float64) (Point, error) {
	if len(c) != 2 {
		return Point{}, fmt.Errorf("coordinates must have exactly two elements, got %d", len(c))
	}
	p := Point{Lng: c[0], Lat: c[1]}
	return p, p.Validate()
}

// ParseCoordinates parses "lng,lat" as sent by form clients.
func ParseCoordinates(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("coordinates must have exactly two elements, got %d", len(parts))
	}
	c := make([]float64, 2)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Point{}, fmt.Errorf("invalid coordinate %q: %w", part, err)
		}
		c[i] = v
	}
	return FromCoordinates(c)
}

// Distance returns the great-circle distance between a and b in metres.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
