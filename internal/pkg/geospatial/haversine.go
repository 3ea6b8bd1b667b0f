// Package geospatial holds the great-circle math behind the campus-distance
// fallback and the viewport prefiltering of place queries.
package geospatial

import "math"

const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance in meters between two
// (lat,lon) pairs. Dorm records without usable distance metadata are
// measured against the campus anchor with this.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox returns the box spanning radiusMeters around a point, for
// cheap index-backed prefilters ahead of an exact distance check.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
