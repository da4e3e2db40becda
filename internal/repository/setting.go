package repository

import "context"

// SettingRepository stores process-wide integer settings.
type SettingRepository interface {
	// GetInt returns the stored value, or ErrNotFound if the key was never set.
	GetInt(ctx context.Context, key string) (int, error)

	// SetInt creates or replaces the value for key.
	SetInt(ctx context.Context, key string, value int) error
}
