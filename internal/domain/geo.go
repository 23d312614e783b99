package domain

import "math"

// EarthRadiusMiles is the mean earth radius used for every distance.
const EarthRadiusMiles = 3958.8

// Valid reports whether the coordinate is finite and inside the WGS-84 range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// HaversineMiles returns the great-circle distance between a and b in miles.
func HaversineMiles(a, b Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + sinDLng*sinDLng*math.Cos(lat1)*math.Cos(lat2)

	// Rounding can push h a hair above 1 for antipodal points.
	return 2 * EarthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
