package repository

import (
	"context"
	"time"

	"delivery/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create adds a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// UpdateStatus moves the order from one status to another.
	// Returns false if the order was not in the from status.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error)

	// AssignDriverIfUnassigned sets the driver only while no driver is set.
	// An empty assignedBy is stored as NULL. Returns false when the order
	// already had a driver.
	AssignDriverIfUnassigned(ctx context.Context, orderID, driverID, assignedBy string, assignedAt time.Time) (bool, error)

	// ListUnassignedConfirmed returns ids of confirmed orders without a driver,
	// oldest confirmation first.
	ListUnassignedConfirmed(ctx context.Context, limit int) ([]string, error)
}
