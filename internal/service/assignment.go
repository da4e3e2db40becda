package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"delivery/internal/domain"
	"delivery/internal/geo"
	"delivery/internal/redis"
	"delivery/internal/repository"
)

const defaultDriverLockTTL = 30 * time.Minute

// AssignmentEngine picks the best online driver for a confirmed order and
// commits the assignment. It does not log or publish; callers do.
type AssignmentEngine struct {
	orderRepo      repository.OrderRepository
	restaurantRepo repository.RestaurantRepository
	driverRepo     repository.DriverRepository
	settings       SettingsProvider

	locker  redis.DriverLocker // nil disables driver reservation
	lockTTL time.Duration
	now     func() time.Time
}

// EngineOption configures an AssignmentEngine.
type EngineOption func(*AssignmentEngine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *AssignmentEngine) {
		e.now = now
	}
}

// WithDriverLock reserves the chosen driver in Redis before committing,
// skipping candidates already reserved by another order.
func WithDriverLock(locker redis.DriverLocker, ttl time.Duration) EngineOption {
	return func(e *AssignmentEngine) {
		e.locker = locker
		if ttl > 0 {
			e.lockTTL = ttl
		}
	}
}

// NewAssignmentEngine creates a new AssignmentEngine.
func NewAssignmentEngine(
	orderRepo repository.OrderRepository,
	restaurantRepo repository.RestaurantRepository,
	driverRepo repository.DriverRepository,
	settings SettingsProvider,
	opts ...EngineOption,
) *AssignmentEngine {
	e := &AssignmentEngine{
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		driverRepo:     driverRepo,
		settings:       settings,
		lockTTL:        defaultDriverLockTTL,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign tries to assign the closest online driver to the order.
//
// Every business result is returned as an Outcome. The error is non-nil
// only when a repository or lock call fails.
func (e *AssignmentEngine) Assign(ctx context.Context, orderID string) (domain.Outcome, error) {
	if orderID == "" {
		return domain.Outcome{}, ErrInvalidOrderID
	}

	order, err := e.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order.HasDriver() {
		return domain.Outcome{Kind: domain.OutcomeAlreadyAssigned}, nil
	}

	pickup, err := e.restaurantRepo.GetLocation(ctx, order.RestaurantID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("load restaurant %s: %w", order.RestaurantID, err)
	}
	if pickup == nil {
		return domain.Outcome{Kind: domain.OutcomeRestaurantLocationMissing}, nil
	}

	radiusKm, err := e.settings.GetInt(ctx, domain.SettingMaxRadiusKm, domain.DefaultMaxRadiusKm)
	if err != nil {
		return domain.Outcome{}, err
	}
	timeoutMin, err := e.settings.GetInt(ctx, domain.SettingOnlineTimeoutMinutes, domain.DefaultOnlineTimeoutMinutes)
	if err != nil {
		return domain.Outcome{}, err
	}

	cutoff := e.now().Add(-time.Duration(timeoutMin) * time.Minute)
	candidates, err := e.driverRepo.FindOnlineDrivers(ctx, cutoff)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("find online drivers: %w", err)
	}
	if len(candidates) == 0 {
		return domain.Outcome{Kind: domain.OutcomeNoOnlineDrivers}, nil
	}

	ranked := RankCandidates(*pickup, candidates, float64(radiusKm))
	if len(ranked) == 0 {
		return domain.Outcome{Kind: domain.OutcomeNoDriversInRadius}, nil
	}

	if e.locker == nil {
		return e.commit(ctx, orderID, ranked[0])
	}
	return e.commitReserved(ctx, orderID, ranked)
}

func (e *AssignmentEngine) commit(ctx context.Context, orderID string, winner domain.ScoredCandidate) (domain.Outcome, error) {
	ok, err := e.orderRepo.AssignDriverIfUnassigned(ctx, orderID, winner.Candidate.ID, "", e.now())
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("commit assignment for order %s: %w", orderID, err)
	}
	if !ok {
		return domain.Outcome{Kind: domain.OutcomeAlreadyAssigned}, nil
	}
	return domain.Assigned(winner.Candidate.ID, winner.DistanceKm, winner.ETAMinutes), nil
}

// commitReserved walks the ranking and commits the first driver whose
// reservation succeeds. The reservation is kept after a successful commit
// and expires with its TTL.
func (e *AssignmentEngine) commitReserved(ctx context.Context, orderID string, ranked []domain.ScoredCandidate) (domain.Outcome, error) {
	for _, c := range ranked {
		reserved, err := e.locker.Reserve(ctx, c.Candidate.ID, orderID, e.lockTTL)
		if err != nil {
			return domain.Outcome{}, err
		}
		if !reserved {
			continue
		}

		outcome, err := e.commit(ctx, orderID, c)
		if err != nil || !outcome.IsAssigned() {
			// A failed release leaves the driver held until the TTL expires.
			if relErr := e.locker.Release(ctx, c.Candidate.ID, orderID); relErr != nil {
				err = errors.Join(err, fmt.Errorf("release driver %s: %w", c.Candidate.ID, relErr))
			}
		}
		return outcome, err
	}
	// Every in-radius driver is held by another order.
	return domain.Outcome{Kind: domain.OutcomeNoDriversInRadius}, nil
}

// RankCandidates scores candidates against the pickup point, drops those
// without a position or outside radiusKm, and orders the rest by ETA, then
// distance, then driver id.
func RankCandidates(pickup domain.GeoPoint, candidates []domain.DriverCandidate, radiusKm float64) []domain.ScoredCandidate {
	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.LastPosition == nil {
			continue
		}
		d := geo.Distance(c.LastPosition.Point, pickup)
		// Written so a NaN distance is also dropped.
		if !(d <= radiusKm) {
			continue
		}
		scored = append(scored, domain.ScoredCandidate{
			Candidate:  c,
			DistanceKm: d,
			ETAMinutes: geo.EstimateMinutes(d, c.TravelMode.SpeedKmh()),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.ETAMinutes != b.ETAMinutes {
			return a.ETAMinutes < b.ETAMinutes
		}
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		return a.Candidate.ID < b.Candidate.ID
	})
	return scored
}
