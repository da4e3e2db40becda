package domain

// OutcomeKind identifies the result of an assignment attempt.
type OutcomeKind string

const (
	OutcomeAssigned                  OutcomeKind = "assigned"
	OutcomeNoOnlineDrivers           OutcomeKind = "no_online_drivers"
	OutcomeNoDriversInRadius         OutcomeKind = "no_drivers_in_radius"
	OutcomeRestaurantLocationMissing OutcomeKind = "restaurant_location_missing"
	OutcomeAlreadyAssigned           OutcomeKind = "already_assigned"
)

// Outcome is the business result of an assignment attempt. DriverID,
// DistanceKm and ETAMinutes are only set when Kind is OutcomeAssigned.
type Outcome struct {
	Kind       OutcomeKind
	DriverID   string
	DistanceKm float64
	ETAMinutes int
}

// Assigned builds a successful outcome.
func Assigned(driverID string, distanceKm float64, etaMinutes int) Outcome {
	return Outcome{
		Kind:       OutcomeAssigned,
		DriverID:   driverID,
		DistanceKm: distanceKm,
		ETAMinutes: etaMinutes,
	}
}

// IsAssigned reports whether the attempt committed a driver.
func (o Outcome) IsAssigned() bool {
	return o.Kind == OutcomeAssigned
}

// Setting keys read by the assignment engine.
const (
	SettingMaxRadiusKm          = "driver_max_radius_km"
	SettingOnlineTimeoutMinutes = "driver_online_timeout_minutes"
)

// Defaults used when a setting has never been stored.
const (
	DefaultMaxRadiusKm          = 10
	DefaultOnlineTimeoutMinutes = 15
)

// SettingDefaults maps each known setting key to its default.
var SettingDefaults = map[string]int{
	SettingMaxRadiusKm:          DefaultMaxRadiusKm,
	SettingOnlineTimeoutMinutes: DefaultOnlineTimeoutMinutes,
}
