package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"delivery/internal/domain"
	"delivery/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, travel_mode, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var travelMode sql.NullString
	if driver.TravelMode != domain.TravelModeUnspecified {
		travelMode = sql.NullString{String: string(driver.TravelMode), Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Phone,
		travelMode,
		driver.IsAvailable,
		driver.CreatedAt,
	)
	return mapWriteError(err)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(travel_mode, ''), is_available, created_at
		FROM drivers WHERE id = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByPhone retrieves a driver by phone number.
func (r *DriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(travel_mode, ''), is_available, created_at
		FROM drivers WHERE phone = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, phone))
}

func (r *DriverRepository) scanOne(row *sql.Row) (*domain.Driver, error) {
	var driver domain.Driver
	var travelMode string
	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&travelMode,
		&driver.IsAvailable,
		&driver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	driver.TravelMode = domain.TravelMode(travelMode)
	return &driver, nil
}

// SetAvailability toggles whether the driver accepts assignments.
func (r *DriverRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	query := `UPDATE drivers SET is_available = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, available, id)
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

// RecordPosition appends a position report for the driver.
func (r *DriverRepository) RecordPosition(ctx context.Context, pos *domain.DriverPosition) error {
	query := `
		INSERT INTO driver_positions (driver_id, latitude, longitude, recorded_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.q.ExecContext(ctx, query, pos.DriverID, pos.Point.Latitude, pos.Point.Longitude, pos.RecordedAt)
	return err
}

// FindOnlineDrivers returns available drivers whose latest position is at or
// after cutoff. Only the single most recent position per driver is loaded.
func (r *DriverRepository) FindOnlineDrivers(ctx context.Context, cutoff time.Time) ([]domain.DriverCandidate, error) {
	query := `
		SELECT d.id, COALESCE(d.name, ''), COALESCE(d.travel_mode, ''), d.is_available,
		       p.latitude, p.longitude, p.recorded_at
		FROM drivers d
		JOIN LATERAL (
			SELECT latitude, longitude, recorded_at
			FROM driver_positions
			WHERE driver_id = d.id
			ORDER BY recorded_at DESC
			LIMIT 1
		) p ON TRUE
		WHERE d.is_available = TRUE AND p.recorded_at >= $1
		ORDER BY d.id
	`

	rows, err := r.q.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.DriverCandidate
	for rows.Next() {
		var c domain.DriverCandidate
		var travelMode string
		var pos domain.DriverPosition
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&travelMode,
			&c.IsAvailable,
			&pos.Point.Latitude,
			&pos.Point.Longitude,
			&pos.RecordedAt,
		); err != nil {
			return nil, err
		}
		c.TravelMode = domain.TravelMode(travelMode)
		pos.DriverID = c.ID
		c.LastPosition = &pos
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
