package repository

import (
	"context"

	"delivery/internal/domain"
)

// RestaurantRepository defines the persistence operations for restaurants.
type RestaurantRepository interface {
	// Create adds a new restaurant.
	Create(ctx context.Context, restaurant *domain.Restaurant) error

	// GetByID retrieves a restaurant by ID.
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)

	// GetLocation returns the restaurant coordinates, or nil if none are recorded.
	GetLocation(ctx context.Context, id string) (*domain.GeoPoint, error)

	// UpdateLocation sets or clears (nil) the restaurant coordinates.
	UpdateLocation(ctx context.Context, id string, location *domain.GeoPoint) error
}
