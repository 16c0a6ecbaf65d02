package core

import "math"

// EarthRadiusKm is the mean Earth radius used for all great-circle
// calculations in the drift core (kilometres).
const EarthRadiusKm = 6371.0

// kmPerDegreeLat is the approximate north-south extent of one degree of
// latitude. Longitude scaling varies with latitude and is derived from it.
const kmPerDegreeLat = 111.0

// HaversineKm returns the great-circle distance between two points in
// kilometres. Symmetric, and zero for identical points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BoundingBox returns (minLat, maxLat, minLon, maxLon) for a box of the given
// radius around a centre point. Near the poles the cosine longitude scale
// degenerates towards zero; when it is no longer positive we fall back to the
// latitude scale so the box stays finite.
func BoundingBox(centerLat, centerLon, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	kmPerDegLon := kmPerDegreeLat * math.Cos(centerLat*math.Pi/180)

	dLat := radiusKm / kmPerDegreeLat
	dLon := dLat
	if kmPerDegLon > 0 {
		dLon = radiusKm / kmPerDegLon
	}

	return centerLat - dLat, centerLat + dLat, centerLon - dLon, centerLon + dLon
}

// VelocityToDegreesPerHour converts a velocity in m/s to position change in
// degrees per hour at the given latitude. The longitude component uses the
// latitude-scaled metre-per-degree factor and is forced to zero when that
// factor is not positive, avoiding NaN/Inf near the poles.
func VelocityToDegreesPerHour(u, v, latitude float64) (dLonPerHour, dLatPerHour float64) {
	const earthRadiusM = EarthRadiusKm * 1000

	metersPerDegLat := 2 * math.Pi * earthRadiusM / 360
	metersPerDegLon := metersPerDegLat * math.Cos(latitude*math.Pi/180)

	dLatPerHour = v * 3600 / metersPerDegLat
	if metersPerDegLon > 0 {
		dLonPerHour = u * 3600 / metersPerDegLon
	}
	return dLonPerHour, dLatPerHour
}

// ValidCoordinate reports whether the pair is a usable geographic coordinate.
func ValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
