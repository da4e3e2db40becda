package events

import (
	"context"
	"log/slog"
	"time"
)

// RoutingKeyDriverAssigned names the driver-assigned event on the broker.
const RoutingKeyDriverAssigned = "order.driver_assigned"

// DriverAssignedEvent is published after an order gets a driver.
type DriverAssignedEvent struct {
	OrderID    string    `json:"order_id"`
	DriverID   string    `json:"driver_id"`
	AssignedBy string    `json:"assigned_by,omitempty"` // empty for automatic assignment
	DistanceKm float64   `json:"distance_km"`
	ETAMinutes int       `json:"eta_minutes"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	PublishDriverAssigned(ctx context.Context, event DriverAssignedEvent) error
	Close() error
}

// LogPublisher writes events to the logger instead of a broker.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishDriverAssigned(ctx context.Context, event DriverAssignedEvent) error {
	p.logger.InfoContext(ctx, "driver assigned event",
		"order_id", event.OrderID,
		"driver_id", event.DriverID,
		"assigned_by", event.AssignedBy,
		"distance_km", event.DistanceKm,
		"eta_minutes", event.ETAMinutes,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

var (
	_ Publisher = (*LogPublisher)(nil)
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = (*RabbitPublisher)(nil)
)
