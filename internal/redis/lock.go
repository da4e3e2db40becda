package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseIfOwner deletes the key only when it still holds the caller's order id.
var releaseIfOwner = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// DriverLockStore reserves drivers for a single order in Redis so two
// concurrent assignments do not pick the same driver.
type DriverLockStore struct {
	client *redis.Client
}

// NewDriverLockStore creates a new DriverLockStore.
func NewDriverLockStore(client *redis.Client) *DriverLockStore {
	return &DriverLockStore{client: client}
}

func driverLockKey(driverID string) string {
	return fmt.Sprintf("assign:driver:%s", driverID)
}

// Reserve attempts to reserve driverID on behalf of orderID.
// Returns false if another order holds the reservation.
func (s *DriverLockStore) Reserve(ctx context.Context, driverID, orderID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, driverLockKey(driverID), orderID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve driver %s: %w", driverID, err)
	}
	return ok, nil
}

// Release drops the reservation if orderID still owns it.
func (s *DriverLockStore) Release(ctx context.Context, driverID, orderID string) error {
	if err := releaseIfOwner.Run(ctx, s.client, []string{driverLockKey(driverID)}, orderID).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release driver %s: %w", driverID, err)
	}
	return nil
}
