package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"delivery/internal/domain"
	"delivery/internal/repository"
)

// SettingsProvider reads process-wide integer settings. Implementations
// must not cache across calls so operator changes apply immediately.
type SettingsProvider interface {
	GetInt(ctx context.Context, key string, def int) (int, error)
}

// SettingsService manages the assignment tunables.
type SettingsService struct {
	repo repository.SettingRepository
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo repository.SettingRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetInt returns the stored value for key, or def when it was never set.
func (s *SettingsService) GetInt(ctx context.Context, key string, def int) (int, error) {
	v, err := s.repo.GetInt(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return def, nil
		}
		return 0, fmt.Errorf("read setting %s: %w", key, err)
	}
	return v, nil
}

// Set stores a new value for a known setting.
func (s *SettingsService) Set(ctx context.Context, key string, value int) error {
	if _, ok := domain.SettingDefaults[key]; !ok {
		return ErrUnknownSetting
	}
	if value <= 0 {
		return ErrInvalidSettingValue
	}
	return s.repo.SetInt(ctx, key, value)
}

// Setting is a key with its effective value.
type Setting struct {
	Key   string
	Value int
}

// All returns every known setting with its effective value, sorted by key.
func (s *SettingsService) All(ctx context.Context) ([]Setting, error) {
	keys := make([]string, 0, len(domain.SettingDefaults))
	for k := range domain.SettingDefaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Setting, 0, len(keys))
	for _, k := range keys {
		v, err := s.GetInt(ctx, k, domain.SettingDefaults[k])
		if err != nil {
			return nil, err
		}
		out = append(out, Setting{Key: k, Value: v})
	}
	return out, nil
}
