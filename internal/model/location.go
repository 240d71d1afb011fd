package model

import (
	"math"
	"time"
)

// Location is a single GPS reading.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // meters
	Timestamp time.Time `json:"timestamp"`
}

// haversineMeters returns the great-circle distance between two points, in
// meters. The geographic-distance library itself is out of scope per the
// spec (treated as an opaque external collaborator) — this is the minimal
// stand-in the selector and location filter need.
func haversineMeters(a, b Location) float64 {
	const earthRadiusM = 6371000.0
	lat1, lat2 := a.Latitude*math.Pi/180, b.Latitude*math.Pi/180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// DistanceMeters is the great-circle distance between two locations, in
// meters.
func DistanceMeters(a, b Location) float64 {
	return haversineMeters(a, b)
}

// LocationCounts tracks, per player, how many location readings were
// submitted versus accepted by the location filter (spec.md §4.1.4, §8).
type LocationCounts struct {
	Total    uint64 `json:"total"`
	Accepted uint64 `json:"accepted"`
}
