package model

import (
	"math"
	"strconv"
)

// Point is a parsed geographic position in decimal degrees. A user's fix is a Point.
type Point struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// NewPoint builds a Point.
func NewPoint(latitude, longitude float64) Point {
	return Point{Latitude: latitude, Longitude: longitude}
}

// Coordinates holds latitude/longitude exactly as reported by the API. Either
// side may be absent or non-numeric.
type Coordinates struct {
	LatitudeString  *string `json:"lat,omitempty" yaml:"lat,omitempty"`
	LongitudeString *string `json:"long,omitempty" yaml:"long,omitempty"`
}

// NewCoordinates wraps raw latitude and longitude strings.
func NewCoordinates(lat, long *string) Coordinates {
	return Coordinates{LatitudeString: lat, LongitudeString: long}
}

// Latitude parses the latitude string.
func (c Coordinates) Latitude() (float64, bool) {
	return parseFinite(c.LatitudeString)
}

// Longitude parses the longitude string.
func (c Coordinates) Longitude() (float64, bool) {
	return parseFinite(c.LongitudeString)
}

// Point returns the parsed position. ok is false unless both sides parse to
// finite numbers.
func (c Coordinates) Point() (Point, bool) {
	lat, ok := c.Latitude()
	if !ok {
		return Point{}, false
	}
	lon, ok := c.Longitude()
	if !ok {
		return Point{}, false
	}
	return NewPoint(lat, lon), true
}

// Valid reports whether the coordinates can be used for distance calculations.
func (c Coordinates) Valid() bool {
	_, ok := c.Point()
	return ok
}

func parseFinite(s *string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
