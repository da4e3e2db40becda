package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"delivery/internal/domain"
	"delivery/internal/repository"
	"delivery/internal/service"
)

// ──────────────────────────────────────────────
// DRIVER REGISTRATION
// ──────────────────────────────────────────────

func TestDriverRegister_CreatesUnavailableDriver(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverService := service.NewDriverService(driverRepo)

	driver, err := driverService.Register(context.Background(), service.RegisterDriverRequest{
		Name:       "Sita",
		Phone:      "9800000001",
		TravelMode: "scooter",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.ID == "" {
		t.Error("expected generated driver id")
	}
	if driver.IsAvailable {
		t.Error("new drivers must start unavailable")
	}
	if driver.TravelMode != domain.TravelModeScooter {
		t.Errorf("expected scooter, got %q", driver.TravelMode)
	}
	if driverRepo.GetDriver(driver.ID) == nil {
		t.Error("expected driver to be stored")
	}
}

func TestDriverRegister_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.RegisterDriverRequest
		wantErr error
	}{
		{
			name:    "missing name",
			req:     service.RegisterDriverRequest{Phone: "1"},
			wantErr: service.ErrInvalidDriverName,
		},
		{
			name:    "missing phone",
			req:     service.RegisterDriverRequest{Name: "A"},
			wantErr: service.ErrInvalidPhone,
		},
		{
			name:    "unknown travel mode",
			req:     service.RegisterDriverRequest{Name: "A", Phone: "1", TravelMode: "helicopter"},
			wantErr: service.ErrInvalidTravelMode,
		},
		{
			name:    "unspecified travel mode is allowed",
			req:     service.RegisterDriverRequest{Name: "A", Phone: "1"},
			wantErr: nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			driverService := service.NewDriverService(NewMockDriverRepository())
			_, err := driverService.Register(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestDriverRegister_DuplicatePhoneReturnsExisting(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Name: "Ram", Phone: "9800000001"})
	driverService := service.NewDriverService(driverRepo)

	driver, err := driverService.Register(context.Background(), service.RegisterDriverRequest{
		Name:  "Someone Else",
		Phone: "9800000001",
	})
	if !errors.Is(err, service.ErrDriverAlreadyRegistered) {
		t.Fatalf("expected ErrDriverAlreadyRegistered, got %v", err)
	}
	if driver == nil || driver.ID != "driver-1" {
		t.Errorf("expected existing driver to be returned, got %+v", driver)
	}
	if n := atomic.LoadInt32(&driverRepo.CreateCallCount); n != 0 {
		t.Errorf("expected no create, got %d", n)
	}
}

func TestDriverRegister_UniqueViolationMapsToAlreadyRegistered(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverRepo.CreateError = repository.ErrDuplicate
	driverService := service.NewDriverService(driverRepo)

	_, err := driverService.Register(context.Background(), service.RegisterDriverRequest{
		Name:  "Gita",
		Phone: "9800000003",
	})
	if !errors.Is(err, service.ErrDriverAlreadyRegistered) {
		t.Errorf("expected ErrDriverAlreadyRegistered, got %v", err)
	}
}

// ──────────────────────────────────────────────
// DRIVER LOCATION UPDATE EDGE CASES
// ──────────────────────────────────────────────

func TestDriverLocationUpdate_AppendsPosition(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Name: "Test Driver"})

	driverService := service.NewDriverService(driverRepo)

	req := service.UpdateLocationRequest{
		DriverID: "driver-1",
		Lat:      27.7172,
		Lng:      85.3240,
	}

	if err := driverService.UpdateLocation(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	positions := driverRepo.Positions("driver-1")
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	if positions[0].Point.Latitude != 27.7172 || positions[0].Point.Longitude != 85.3240 {
		t.Errorf("unexpected point %+v", positions[0].Point)
	}
	if positions[0].RecordedAt.IsZero() {
		t.Error("expected position to be stamped")
	}
}

func TestDriverLocationUpdate_InvalidCoordinates_Rejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{name: "latitude too high", lat: 91.0, lng: 85.3, wantErr: true},
		{name: "latitude too low", lat: -91.0, lng: 85.3, wantErr: true},
		{name: "longitude too high", lat: 27.7, lng: 181.0, wantErr: true},
		{name: "longitude too low", lat: 27.7, lng: -181.0, wantErr: true},
		{name: "valid coordinates", lat: 27.7, lng: 85.3, wantErr: false},
		{name: "edge case: max latitude", lat: 90.0, lng: 85.3, wantErr: false},
		{name: "edge case: min latitude", lat: -90.0, lng: 85.3, wantErr: false},
		{name: "edge case: max longitude", lat: 27.7, lng: 180.0, wantErr: false},
		{name: "edge case: min longitude", lat: 27.7, lng: -180.0, wantErr: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			driverRepo := NewMockDriverRepository()
			driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})
			driverService := service.NewDriverService(driverRepo)

			err := driverService.UpdateLocation(context.Background(), service.UpdateLocationRequest{
				DriverID: "driver-1",
				Lat:      tc.lat,
				Lng:      tc.lng,
			})
			if tc.wantErr && !errors.Is(err, service.ErrInvalidLocation) {
				t.Errorf("expected ErrInvalidLocation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestDriverLocationUpdate_MissingDriverID_Rejected(t *testing.T) {
	t.Parallel()

	driverService := service.NewDriverService(NewMockDriverRepository())

	err := driverService.UpdateLocation(context.Background(), service.UpdateLocationRequest{
		Lat: 27.7,
		Lng: 85.3,
	})
	if !errors.Is(err, service.ErrInvalidDriverID) {
		t.Errorf("expected ErrInvalidDriverID, got %v", err)
	}
}

func TestDriverLocationUpdate_UnknownDriver_NotFound(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverService := service.NewDriverService(driverRepo)

	err := driverService.UpdateLocation(context.Background(), service.UpdateLocationRequest{
		DriverID: "ghost",
		Lat:      27.7,
		Lng:      85.3,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if n := atomic.LoadInt32(&driverRepo.RecordCallCount); n != 0 {
		t.Errorf("expected no position write, got %d", n)
	}
}

func TestDriverLocationUpdate_HighFrequencyUpdates_NoError(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})
	driverService := service.NewDriverService(driverRepo)

	for i := 0; i < 100; i++ {
		req := service.UpdateLocationRequest{
			DriverID: "driver-1",
			Lat:      27.7 + float64(i)*0.0001,
			Lng:      85.3 + float64(i)*0.0001,
		}
		if err := driverService.UpdateLocation(context.Background(), req); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}

	if n := atomic.LoadInt32(&driverRepo.RecordCallCount); n != 100 {
		t.Errorf("expected 100 updates, got %d", n)
	}
}

func TestDriverLocationUpdate_StoreError_PropagatesError(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverRepo.RecordError = ErrStorageDown
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})
	driverService := service.NewDriverService(driverRepo)

	err := driverService.UpdateLocation(context.Background(), service.UpdateLocationRequest{
		DriverID: "driver-1",
		Lat:      27.7,
		Lng:      85.3,
	})
	if !errors.Is(err, ErrStorageDown) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestDriverSetAvailability(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1"})
	driverService := service.NewDriverService(driverRepo)

	if err := driverService.SetAvailability(context.Background(), "driver-1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !driverRepo.GetDriver("driver-1").IsAvailable {
		t.Error("expected driver to be available")
	}

	if err := driverService.SetAvailability(context.Background(), "ghost", true); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
