package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"delivery/internal/domain"
	"delivery/internal/repository"
)

// Enqueuer accepts orders for asynchronous assignment.
type Enqueuer interface {
	Enqueue(orderID string) error
}

// OrderService handles the order workflow around driver assignment.
type OrderService struct {
	orderRepo      repository.OrderRepository
	restaurantRepo repository.RestaurantRepository
	driverRepo     repository.DriverRepository
	engine         Assigner
	enqueuer       Enqueuer
	notifier       *NotificationService
	logger         *slog.Logger
	now            func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	restaurantRepo repository.RestaurantRepository,
	driverRepo repository.DriverRepository,
	engine Assigner,
	enqueuer Enqueuer,
	notifier *NotificationService,
	logger *slog.Logger,
) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		driverRepo:     driverRepo,
		engine:         engine,
		enqueuer:       enqueuer,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateOrderRequest contains the parameters for creating an order.
type CreateOrderRequest struct {
	CustomerID   string
	RestaurantID string
}

// Create creates a new pending order.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	if req.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if req.RestaurantID == "" {
		return nil, ErrInvalidRestaurantID
	}

	if _, err := s.restaurantRepo.GetByID(ctx, req.RestaurantID); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:           uuid.New().String(),
		CustomerID:   req.CustomerID,
		RestaurantID: req.RestaurantID,
		Status:       domain.OrderStatusPending,
		CreatedAt:    s.now(),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get retrieves an order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidOrderID
	}
	return s.orderRepo.GetByID(ctx, id)
}

// Confirm moves a pending order to confirmed and queues it for assignment.
// A full queue is not an error; the sweeper picks the order up later.
func (s *OrderService) Confirm(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidOrderID
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, id, domain.OrderStatusPending, domain.OrderStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Distinguish a missing order from one in the wrong state.
		if _, err := s.orderRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrOrderNotPending
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.Enqueue(id); err != nil {
			s.logger.WarnContext(ctx, "order confirmed but not queued for assignment", "order_id", id, "error", err)
		}
	}

	return s.orderRepo.GetByID(ctx, id)
}

// AssignNow runs an assignment synchronously for a confirmed order.
func (s *OrderService) AssignNow(ctx context.Context, id string) (domain.Outcome, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}
	if order.Status != domain.OrderStatusConfirmed {
		return domain.Outcome{}, ErrOrderNotConfirmed
	}

	outcome, err := s.engine.Assign(ctx, id)
	if err != nil {
		return domain.Outcome{}, err
	}

	s.logger.InfoContext(ctx, "manual trigger assignment finished", "order_id", id, "outcome", outcome.Kind, "driver_id", outcome.DriverID)
	if outcome.IsAssigned() && s.notifier != nil {
		if err := s.notifier.NotifyDriverAssigned(ctx, id, outcome); err != nil {
			s.logger.WarnContext(ctx, "driver assigned notification failed", "order_id", id, "error", err)
		}
	}
	return outcome, nil
}

// AssignManually assigns driverID to the order on behalf of adminID.
func (s *OrderService) AssignManually(ctx context.Context, orderID, driverID, adminID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if adminID == "" {
		return nil, ErrInvalidAdminID
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusConfirmed {
		return nil, ErrOrderNotConfirmed
	}
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, fmt.Errorf("driver %s: %w", driverID, err)
	}

	ok, err := s.orderRepo.AssignDriverIfUnassigned(ctx, orderID, driverID, adminID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderAlreadyAssigned
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyManualAssignment(ctx, orderID, driverID, adminID); err != nil {
			s.logger.WarnContext(ctx, "manual assignment notification failed", "order_id", orderID, "error", err)
		}
	}

	return s.orderRepo.GetByID(ctx, orderID)
}
