// Package geo provides pure great-circle geometry helpers.
package geo

import "math"

// EarthRadiusM is the mean Earth radius in metres.
const EarthRadiusM = 6371000.0

// Haversine returns the great-circle distance in metres between two points
// given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	rLat1 := radians(lat1)
	rLat2 := radians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusM * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
