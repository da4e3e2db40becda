package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"delivery/internal/domain"
	"delivery/internal/repository"
)

// RestaurantService registers restaurants and their pickup coordinates.
type RestaurantService struct {
	restaurantRepo repository.RestaurantRepository
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(restaurantRepo repository.RestaurantRepository) *RestaurantService {
	return &RestaurantService{restaurantRepo: restaurantRepo}
}

// RegisterRestaurantRequest contains the parameters for registering a restaurant.
// Lat and Lng must be both set or both nil.
type RegisterRestaurantRequest struct {
	Name string
	Lat  *float64
	Lng  *float64
}

// Register creates a restaurant.
func (s *RestaurantService) Register(ctx context.Context, req RegisterRestaurantRequest) (*domain.Restaurant, error) {
	if req.Name == "" {
		return nil, ErrInvalidRestaurantName
	}

	location, err := pointFromOptional(req.Lat, req.Lng)
	if err != nil {
		return nil, err
	}

	restaurant := &domain.Restaurant{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Location:  location,
		CreatedAt: time.Now(),
	}
	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

// Get retrieves a restaurant by ID.
func (s *RestaurantService) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	if id == "" {
		return nil, ErrInvalidRestaurantID
	}
	return s.restaurantRepo.GetByID(ctx, id)
}

// UpdateLocation sets the pickup coordinates, or clears them when location is nil.
func (s *RestaurantService) UpdateLocation(ctx context.Context, id string, location *domain.GeoPoint) error {
	if id == "" {
		return ErrInvalidRestaurantID
	}
	if location != nil && !location.Valid() {
		return ErrInvalidLocation
	}
	return s.restaurantRepo.UpdateLocation(ctx, id, location)
}

func pointFromOptional(lat, lng *float64) (*domain.GeoPoint, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, ErrInvalidLocation
	}
	p := &domain.GeoPoint{Latitude: *lat, Longitude: *lng}
	if !p.Valid() {
		return nil, ErrInvalidLocation
	}
	return p, nil
}
