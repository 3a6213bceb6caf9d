// Package geo provides straight-line geometry over lat/lng coordinates:
// great-circle distance, polygon containment, path interpolation and
// random sampling inside the service region.
package geo

import (
	"math"
	"math/rand"

	"darkstore-sim/internal/domain"

	"github.com/rs/zerolog/log"
)

const (
	earthRadiusKm = 6371.0

	// km per degree of latitude
	kmPerDegree = 111.32

	// MaxSampleAttempts bounds rejection sampling in RandomPointInRegion.
	MaxSampleAttempts = 200
)

// DistanceKm returns the haversine distance between a and b.
func DistanceKm(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	deltaLat := toRadians(b.Lat - a.Lat)
	deltaLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// PointInPolygon is a ray-casting test against a single ring.
// Lng is treated as x and Lat as y.
func PointInPolygon(p domain.Coordinates, ring []domain.Coordinates) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat

		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lng < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// RandomPointInRegion rejection-samples the region's bounding box. After
// MaxSampleAttempts misses it logs and returns region.Fallback.
func RandomPointInRegion(rng *rand.Rand, region domain.Region) domain.Coordinates {
	minLat, minLng, maxLat, maxLng := region.Bounds()

	for attempt := 0; attempt < MaxSampleAttempts; attempt++ {
		p := domain.Coordinates{
			Lat: minLat + rng.Float64()*(maxLat-minLat),
			Lng: minLng + rng.Float64()*(maxLng-minLng),
		}
		if PointInPolygon(p, region.Ring) {
			return p
		}
	}

	log.Warn().
		Str("region", region.Name).
		Int("attempts", MaxSampleAttempts).
		Msg("region sampling exhausted, using fallback point")
	return region.Fallback
}

// RandomPointNearHotspot samples uniformly inside a disk of radiusKm around
// center. Points outside the region are replaced by a region sample.
func RandomPointNearHotspot(rng *rand.Rand, region domain.Region, center domain.Coordinates, radiusKm float64) domain.Coordinates {
	p := Offset(center, radiusKm*math.Sqrt(rng.Float64()), rng.Float64()*2*math.Pi)
	if PointInPolygon(p, region.Ring) {
		return p
	}
	return RandomPointInRegion(rng, region)
}

// Offset moves c by distKm along bearing theta (radians, 0 = north) using a
// local flat-earth approximation.
func Offset(c domain.Coordinates, distKm, theta float64) domain.Coordinates {
	dLat := distKm * math.Cos(theta) / kmPerDegree
	dLng := distKm * math.Sin(theta) / (kmPerDegree * math.Cos(toRadians(c.Lat)))
	return domain.Coordinates{Lat: c.Lat + dLat, Lng: c.Lng + dLng}
}

// Lerp interpolates linearly between a and b; t is clamped to [0, 1].
func Lerp(a, b domain.Coordinates, t float64) domain.Coordinates {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return domain.Coordinates{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// InterpolatePath returns waypoints from a to b (both included) spaced at
// most maxLegKm apart. The result always has at least two points.
func InterpolatePath(a, b domain.Coordinates, maxLegKm float64) []domain.Coordinates {
	legs := 1
	if maxLegKm > 0 {
		if n := int(math.Ceil(DistanceKm(a, b) / maxLegKm)); n > 1 {
			legs = n
		}
	}

	path := make([]domain.Coordinates, 0, legs+1)
	for i := 0; i <= legs; i++ {
		path = append(path, Lerp(a, b, float64(i)/float64(legs)))
	}
	// snap the last point exactly
	path[legs] = b
	return path
}

// PathLengthKm sums the leg distances of a waypoint list.
func PathLengthKm(path []domain.Coordinates) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += DistanceKm(path[i-1], path[i])
	}
	return total
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
