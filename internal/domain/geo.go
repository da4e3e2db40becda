package domain

// GeoPoint is a position in decimal degrees.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// IsValidLatitude reports whether lat is within [-90, 90].
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude reports whether lng is within [-180, 180].
func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// Valid reports whether both coordinates are in range.
func (p GeoPoint) Valid() bool {
	return IsValidLatitude(p.Latitude) && IsValidLongitude(p.Longitude)
}
