package redis

import (
	"context"
	"time"
)

// DriverLocker defines the interface for per-driver reservations.
type DriverLocker interface {
	Reserve(ctx context.Context, driverID, orderID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, driverID, orderID string) error
}

// Ensure concrete types implement interfaces.
var _ DriverLocker = (*DriverLockStore)(nil)
