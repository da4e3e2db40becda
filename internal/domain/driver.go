package domain

import "time"

// TravelMode is how a driver moves between pickups.
type TravelMode string

const (
	TravelModeUnspecified TravelMode = ""
	TravelModeBike        TravelMode = "bike"
	TravelModeScooter     TravelMode = "scooter"
	TravelModeCar         TravelMode = "car"
)

// Average speeds used only for ETA estimation, not routing.
const (
	BikeSpeedKmh    = 20.0
	ScooterSpeedKmh = 30.0
	CarSpeedKmh     = 40.0

	// DefaultSpeedKmh applies when a driver has no travel mode on record.
	DefaultSpeedKmh = ScooterSpeedKmh
)

// SpeedKmh returns the average speed for the travel mode.
func (m TravelMode) SpeedKmh() float64 {
	switch m {
	case TravelModeBike:
		return BikeSpeedKmh
	case TravelModeScooter:
		return ScooterSpeedKmh
	case TravelModeCar:
		return CarSpeedKmh
	default:
		return DefaultSpeedKmh
	}
}

// Valid reports whether m is a known mode or unspecified.
func (m TravelMode) Valid() bool {
	switch m {
	case TravelModeUnspecified, TravelModeBike, TravelModeScooter, TravelModeCar:
		return true
	}
	return false
}

// Driver represents a delivery driver in the system.
type Driver struct {
	ID          string
	Name        string
	Phone       string
	TravelMode  TravelMode
	IsAvailable bool
	CreatedAt   time.Time
}

// DriverPosition is a single recorded position report.
type DriverPosition struct {
	DriverID   string
	Point      GeoPoint
	RecordedAt time.Time
}

// DriverCandidate is a driver considered during one assignment attempt.
// LastPosition is the most recent report only, never the history.
type DriverCandidate struct {
	ID           string
	Name         string
	TravelMode   TravelMode
	IsAvailable  bool
	LastPosition *DriverPosition
}

// ScoredCandidate is a candidate with its distance and ETA to the pickup.
type ScoredCandidate struct {
	Candidate  DriverCandidate
	DistanceKm float64
	ETAMinutes int
}
