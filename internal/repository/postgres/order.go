package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"delivery/internal/domain"
	"delivery/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, restaurant_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.CustomerID,
		order.RestaurantID,
		order.Status,
		order.CreatedAt,
	)
	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, customer_id, restaurant_id, status, driver_id, assigned_by, assigned_at, confirmed_at, created_at
		FROM orders WHERE id = $1
	`

	var order domain.Order
	var driverID, assignedBy sql.NullString
	var assignedAt, confirmedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.RestaurantID,
		&order.Status,
		&driverID,
		&assignedBy,
		&assignedAt,
		&confirmedAt,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if driverID.Valid {
		order.DriverID = driverID.String
	}
	if assignedBy.Valid {
		order.AssignedBy = assignedBy.String
	}
	if assignedAt.Valid {
		order.AssignedAt = assignedAt.Time
	}
	if confirmedAt.Valid {
		order.ConfirmedAt = confirmedAt.Time
	}

	return &order, nil
}

// UpdateStatus moves the order from one status to another. Confirming an
// order also stamps confirmed_at.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1,
		    confirmed_at = CASE WHEN $4 THEN NOW() ELSE confirmed_at END
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.ExecContext(ctx, query, to, id, from, to == domain.OrderStatusConfirmed)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// AssignDriverIfUnassigned records the assignment in a single conditional
// update. A concurrent writer that already set driver_id makes this a no-op.
func (r *OrderRepository) AssignDriverIfUnassigned(ctx context.Context, orderID, driverID, assignedBy string, assignedAt time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET driver_id = $1, assigned_by = $2, assigned_at = $3
		WHERE id = $4 AND driver_id IS NULL
	`

	var by sql.NullString
	if assignedBy != "" {
		by = sql.NullString{String: assignedBy, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query, driverID, by, assignedAt, orderID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// ListUnassignedConfirmed returns ids of confirmed orders with no driver.
func (r *OrderRepository) ListUnassignedConfirmed(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT id FROM orders
		WHERE status = 'confirmed' AND driver_id IS NULL
		ORDER BY confirmed_at NULLS LAST, id
		LIMIT $1
	`

	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
