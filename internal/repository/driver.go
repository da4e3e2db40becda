package repository

import (
	"context"
	"time"

	"delivery/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByPhone retrieves a driver by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.Driver, error)

	// SetAvailability toggles whether the driver accepts assignments.
	SetAvailability(ctx context.Context, id string, available bool) error

	// RecordPosition appends a position report for the driver.
	RecordPosition(ctx context.Context, pos *domain.DriverPosition) error

	// FindOnlineDrivers returns available drivers whose most recent
	// position was recorded at or after cutoff, each with that position.
	FindOnlineDrivers(ctx context.Context, cutoff time.Time) ([]domain.DriverCandidate, error)
}
