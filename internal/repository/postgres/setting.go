package postgres

import (
	"context"
	"database/sql"
	"errors"

	"delivery/internal/repository"
)

// SettingRepository is a PostgreSQL implementation of repository.SettingRepository.
type SettingRepository struct {
	q Querier
}

// NewSettingRepository creates a new PostgreSQL settings repository.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{q: db}
}

// GetInt returns the stored integer value for key.
func (r *SettingRepository) GetInt(ctx context.Context, key string) (int, error) {
	query := `SELECT value FROM settings WHERE key = $1`

	var value int
	if err := r.q.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return value, nil
}

// SetInt upserts the value for key.
func (r *SettingRepository) SetInt(ctx context.Context, key string, value int) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.q.ExecContext(ctx, query, key, value)
	return err
}
