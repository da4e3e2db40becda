package postgres

import (
	"context"
	"database/sql"
	"errors"

	"delivery/internal/domain"
	"delivery/internal/repository"
)

// RestaurantRepository is a PostgreSQL implementation of repository.RestaurantRepository.
type RestaurantRepository struct {
	q Querier
}

// NewRestaurantRepository creates a new PostgreSQL restaurant repository.
func NewRestaurantRepository(db *sql.DB) *RestaurantRepository {
	return &RestaurantRepository{q: db}
}

// Create persists a new restaurant.
func (r *RestaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, name, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	lat, lng := nullPoint(restaurant.Location)
	_, err := r.q.ExecContext(ctx, query, restaurant.ID, restaurant.Name, lat, lng, restaurant.CreatedAt)
	return err
}

// GetByID retrieves a restaurant by ID.
func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	query := `SELECT id, name, latitude, longitude, created_at FROM restaurants WHERE id = $1`

	var restaurant domain.Restaurant
	var lat, lng sql.NullFloat64
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&restaurant.ID,
		&restaurant.Name,
		&lat,
		&lng,
		&restaurant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	restaurant.Location = pointFromNull(lat, lng)
	return &restaurant, nil
}

// GetLocation returns the restaurant coordinates, or nil when either is NULL.
func (r *RestaurantRepository) GetLocation(ctx context.Context, id string) (*domain.GeoPoint, error) {
	query := `SELECT latitude, longitude FROM restaurants WHERE id = $1`

	var lat, lng sql.NullFloat64
	if err := r.q.QueryRowContext(ctx, query, id).Scan(&lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return pointFromNull(lat, lng), nil
}

// UpdateLocation sets or clears the restaurant coordinates.
func (r *RestaurantRepository) UpdateLocation(ctx context.Context, id string, location *domain.GeoPoint) error {
	query := `UPDATE restaurants SET latitude = $1, longitude = $2 WHERE id = $3`

	lat, lng := nullPoint(location)
	result, err := r.q.ExecContext(ctx, query, lat, lng, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func nullPoint(p *domain.GeoPoint) (sql.NullFloat64, sql.NullFloat64) {
	if p == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: p.Latitude, Valid: true}, sql.NullFloat64{Float64: p.Longitude, Valid: true}
}

func pointFromNull(lat, lng sql.NullFloat64) *domain.GeoPoint {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &domain.GeoPoint{Latitude: lat.Float64, Longitude: lng.Float64}
}
