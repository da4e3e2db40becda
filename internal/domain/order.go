package domain

import "time"

// OrderStatus represents the current status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a customer order. Only the driver-assignment fields are
// mutated by the assignment workflow.
type Order struct {
	ID           string
	CustomerID   string
	RestaurantID string
	Status       OrderStatus
	DriverID     string    // empty until assigned
	AssignedBy   string    // empty means automatic (system) assignment
	AssignedAt   time.Time // zero until assigned
	ConfirmedAt  time.Time
	CreatedAt    time.Time
}

// HasDriver reports whether a driver is assigned.
func (o *Order) HasDriver() bool {
	return o.DriverID != ""
}

// Restaurant is where orders are picked up.
type Restaurant struct {
	ID        string
	Name      string
	Location  *GeoPoint // nil when no coordinates were recorded
	CreatedAt time.Time
}
