package service

import "errors"

var (
	// ErrInvalidOrderID is returned when order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidCustomerID is returned when customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidRestaurantID is returned when restaurant ID is empty.
	ErrInvalidRestaurantID = errors.New("invalid restaurant id")

	// ErrInvalidRestaurantName is returned when restaurant name is empty.
	ErrInvalidRestaurantName = errors.New("invalid restaurant name")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidDriverName is returned when driver name is empty.
	ErrInvalidDriverName = errors.New("invalid driver name")

	// ErrInvalidPhone is returned when phone is empty.
	ErrInvalidPhone = errors.New("invalid phone")

	// ErrInvalidTravelMode is returned for an unknown travel mode.
	ErrInvalidTravelMode = errors.New("invalid travel mode")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidAdminID is returned when the acting admin is unknown.
	ErrInvalidAdminID = errors.New("invalid admin id")

	// ErrOrderNotPending is returned when confirming an order that is not pending.
	ErrOrderNotPending = errors.New("order not in pending state")

	// ErrOrderNotConfirmed is returned when assigning an order that is not confirmed.
	ErrOrderNotConfirmed = errors.New("order not in confirmed state")

	// ErrOrderAlreadyAssigned is returned when a manual assignment loses to an existing driver.
	ErrOrderAlreadyAssigned = errors.New("order already has a driver")

	// ErrDriverAlreadyRegistered is returned when the phone number is taken.
	ErrDriverAlreadyRegistered = errors.New("driver already registered")

	// ErrUnknownSetting is returned for a setting key the service does not manage.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrInvalidSettingValue is returned for a non-positive setting value.
	ErrInvalidSettingValue = errors.New("setting value must be positive")

	// ErrDispatchQueueFull is returned when the assignment queue cannot take more work.
	ErrDispatchQueueFull = errors.New("assignment queue full")
)
