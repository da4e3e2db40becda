package service

import (
	"context"
	"fmt"
	"time"

	"delivery/internal/domain"
	"delivery/internal/events"
)

// NotificationService turns assignments into driver-assigned events.
type NotificationService struct {
	publisher events.Publisher
	now       func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(publisher events.Publisher) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		now:       time.Now,
	}
}

// NotifyDriverAssigned publishes an event for an automatic assignment.
// Outcomes other than assigned are ignored.
func (s *NotificationService) NotifyDriverAssigned(ctx context.Context, orderID string, outcome domain.Outcome) error {
	if !outcome.IsAssigned() {
		return nil
	}
	return s.publish(ctx, events.DriverAssignedEvent{
		OrderID:    orderID,
		DriverID:   outcome.DriverID,
		DistanceKm: outcome.DistanceKm,
		ETAMinutes: outcome.ETAMinutes,
		AssignedAt: s.now().UTC(),
	})
}

// NotifyManualAssignment publishes an event for an admin assignment.
func (s *NotificationService) NotifyManualAssignment(ctx context.Context, orderID, driverID, adminID string) error {
	return s.publish(ctx, events.DriverAssignedEvent{
		OrderID:    orderID,
		DriverID:   driverID,
		AssignedBy: adminID,
		AssignedAt: s.now().UTC(),
	})
}

func (s *NotificationService) publish(ctx context.Context, event events.DriverAssignedEvent) error {
	if err := s.publisher.PublishDriverAssigned(ctx, event); err != nil {
		return fmt.Errorf("publish driver assigned for order %s: %w", event.OrderID, err)
	}
	return nil
}
