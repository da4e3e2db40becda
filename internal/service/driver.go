package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"delivery/internal/domain"
	"delivery/internal/repository"
)

// DriverService handles driver registration and position ingestion.
type DriverService struct {
	driverRepo repository.DriverRepository
	now        func() time.Time
}

// NewDriverService creates a new DriverService.
func NewDriverService(driverRepo repository.DriverRepository) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		now:        time.Now,
	}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	Name       string
	Phone      string
	TravelMode string
}

// Register creates a driver. New drivers start unavailable.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	if req.Name == "" {
		return nil, ErrInvalidDriverName
	}
	if req.Phone == "" {
		return nil, ErrInvalidPhone
	}
	mode := domain.TravelMode(req.TravelMode)
	if !mode.Valid() {
		return nil, ErrInvalidTravelMode
	}

	existing, err := s.driverRepo.GetByPhone(ctx, req.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, ErrDriverAlreadyRegistered
	}

	driver := &domain.Driver{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Phone:      req.Phone,
		TravelMode: mode,
		CreatedAt:  s.now(),
	}
	if err := s.driverRepo.Create(ctx, driver); err != nil {
		// Lost a race with a concurrent registration for the same phone.
		if errors.Is(err, repository.ErrDuplicate) {
			if existing, getErr := s.driverRepo.GetByPhone(ctx, req.Phone); getErr == nil {
				return existing, ErrDriverAlreadyRegistered
			}
			return nil, ErrDriverAlreadyRegistered
		}
		return nil, err
	}
	return driver, nil
}

// UpdateLocationRequest contains the parameters for a position report.
type UpdateLocationRequest struct {
	DriverID string
	Lat      float64
	Lng      float64
}

// UpdateLocation records a new position for the driver, stamped now.
func (s *DriverService) UpdateLocation(ctx context.Context, req UpdateLocationRequest) error {
	if req.DriverID == "" {
		return ErrInvalidDriverID
	}

	point := domain.GeoPoint{Latitude: req.Lat, Longitude: req.Lng}
	if !point.Valid() {
		return ErrInvalidLocation
	}

	if _, err := s.driverRepo.GetByID(ctx, req.DriverID); err != nil {
		return err
	}

	return s.driverRepo.RecordPosition(ctx, &domain.DriverPosition{
		DriverID:   req.DriverID,
		Point:      point,
		RecordedAt: s.now(),
	})
}

// SetAvailability toggles whether the driver can be assigned.
func (s *DriverService) SetAvailability(ctx context.Context, driverID string, available bool) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	return s.driverRepo.SetAvailability(ctx, driverID, available)
}
