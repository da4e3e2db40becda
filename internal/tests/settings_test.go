package tests

import (
	"context"
	"errors"
	"testing"

	"delivery/internal/domain"
	"delivery/internal/service"
)

func TestSettings_DefaultsWhenUnset(t *testing.T) {
	t.Parallel()
	svc := service.NewSettingsService(NewMockSettingRepository())

	all, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []service.Setting{
		{Key: domain.SettingMaxRadiusKm, Value: domain.DefaultMaxRadiusKm},
		{Key: domain.SettingOnlineTimeoutMinutes, Value: domain.DefaultOnlineTimeoutMinutes},
	}
	if len(all) != len(want) {
		t.Fatalf("expected %d settings, got %d", len(want), len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("setting %d: expected %+v, got %+v", i, want[i], all[i])
		}
	}
}

func TestSettings_SetThenGet(t *testing.T) {
	t.Parallel()
	svc := service.NewSettingsService(NewMockSettingRepository())
	ctx := context.Background()

	if err := svc.Set(ctx, domain.SettingMaxRadiusKm, 4); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := svc.GetInt(ctx, domain.SettingMaxRadiusKm, domain.DefaultMaxRadiusKm)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != 4 {
		t.Errorf("expected 4, got %d", v)
	}
}

func TestSettings_SetValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		key     string
		value   int
		wantErr error
	}{
		{name: "unknown key", key: "surge_multiplier", value: 2, wantErr: service.ErrUnknownSetting},
		{name: "zero radius", key: domain.SettingMaxRadiusKm, value: 0, wantErr: service.ErrInvalidSettingValue},
		{name: "negative timeout", key: domain.SettingOnlineTimeoutMinutes, value: -5, wantErr: service.ErrInvalidSettingValue},
		{name: "valid timeout", key: domain.SettingOnlineTimeoutMinutes, value: 30, wantErr: nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := service.NewSettingsService(NewMockSettingRepository())
			if err := svc.Set(context.Background(), tc.key, tc.value); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSettings_StoreErrorIsNotDefaulted(t *testing.T) {
	t.Parallel()
	repo := NewMockSettingRepository()
	repo.GetError = ErrStorageDown
	svc := service.NewSettingsService(repo)

	if _, err := svc.GetInt(context.Background(), domain.SettingMaxRadiusKm, 10); !errors.Is(err, ErrStorageDown) {
		t.Errorf("expected storage error, got %v", err)
	}
}

// ──────────────────────────────────────────────
// RESTAURANT REGISTRY
// ──────────────────────────────────────────────

func floatPtr(v float64) *float64 { return &v }

func TestRestaurantRegister_Location(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		lat, lng     *float64
		wantErr      error
		wantLocation bool
	}{
		{name: "with coordinates", lat: floatPtr(27.7), lng: floatPtr(85.3), wantLocation: true},
		{name: "without coordinates", wantLocation: false},
		{name: "only latitude", lat: floatPtr(27.7), wantErr: service.ErrInvalidLocation},
		{name: "out of range", lat: floatPtr(95), lng: floatPtr(85.3), wantErr: service.ErrInvalidLocation},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := NewMockRestaurantRepository()
			svc := service.NewRestaurantService(repo)

			r, err := svc.Register(context.Background(), service.RegisterRestaurantRequest{Name: "Momo House", Lat: tc.lat, Lng: tc.lng})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}
			if (r.Location != nil) != tc.wantLocation {
				t.Errorf("expected location present=%v, got %+v", tc.wantLocation, r.Location)
			}
		})
	}
}

func TestRestaurantRegister_RequiresName(t *testing.T) {
	t.Parallel()
	svc := service.NewRestaurantService(NewMockRestaurantRepository())

	if _, err := svc.Register(context.Background(), service.RegisterRestaurantRequest{}); !errors.Is(err, service.ErrInvalidRestaurantName) {
		t.Errorf("expected ErrInvalidRestaurantName, got %v", err)
	}
}

func TestRestaurantUpdateLocation_ClearMakesAssignmentReportMissing(t *testing.T) {
	ctx := context.Background()
	f := newAssignFixture(t)
	f.addDriver("d1", domain.TravelModeCar, 0.009, 0)

	svc := service.NewRestaurantService(f.restaurants)
	if err := svc.UpdateLocation(ctx, "r1", nil); err != nil {
		t.Fatalf("clear location: %v", err)
	}

	outcome, err := f.engine.Assign(ctx, "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != domain.OutcomeRestaurantLocationMissing {
		t.Errorf("expected restaurant_location_missing, got %s", outcome.Kind)
	}

	if err := svc.UpdateLocation(ctx, "r1", &domain.GeoPoint{Latitude: pickupLat, Longitude: pickupLng}); err != nil {
		t.Fatalf("set location: %v", err)
	}
	outcome, err = f.engine.Assign(ctx, "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.IsAssigned() {
		t.Errorf("expected assigned after restoring location, got %s", outcome.Kind)
	}
}
