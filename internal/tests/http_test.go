package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt"
	"github.com/redis/go-redis/v9"

	"delivery/internal/app"
	"delivery/internal/domain"
	"delivery/internal/handler"
	"delivery/internal/service"
)

const testJWTSecret = "test-secret"

type httpFixture struct {
	*assignFixture
	enqueuer  *recordingEnqueuer
	publisher *MockPublisher
	router    *gin.Engine
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	return newHTTPFixtureWithRedis(t, nil)
}

// newHTTPFixtureWithRedis enables idempotency replay when store is non-nil.
func newHTTPFixtureWithRedis(t *testing.T, store redis.Cmdable) *httpFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	af := newAssignFixture(t)
	f := &httpFixture{
		assignFixture: af,
		enqueuer:      &recordingEnqueuer{},
		publisher:     NewMockPublisher(),
	}

	orderService := service.NewOrderService(af.orders, af.restaurants, af.drivers, af.engine, f.enqueuer,
		service.NewNotificationService(f.publisher), quietLogger())
	settingsService := service.NewSettingsService(af.settingRepo)

	f.router = app.NewRouter(app.RouterDeps{
		RestaurantHandler: handler.NewRestaurantHandler(service.NewRestaurantService(af.restaurants)),
		DriverHandler:     handler.NewDriverHandler(service.NewDriverService(af.drivers)),
		OrderHandler:      handler.NewOrderHandler(orderService),
		AdminHandler:      handler.NewAdminHandler(orderService, settingsService),
		RedisClient:       store,
		JWTSecret:         testJWTSecret,
	})
	return f
}

func (f *httpFixture) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	return f.doWithHeaders(method, path, body, token, nil)
}

func (f *httpFixture) doWithHeaders(method, path string, body any, token string, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHTTP_Health(t *testing.T) {
	f := newHTTPFixture(t)
	if w := f.do(http.MethodGet, "/health", nil, ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestHTTP_OrderLifecycle(t *testing.T) {
	f := newHTTPFixture(t)

	w := f.do(http.MethodPost, "/v1/orders", map[string]string{"customer_id": "c9", "restaurant_id": "r1"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created handler.OrderResponse
	decode(t, w, &created)
	if created.Status != string(domain.OrderStatusPending) || created.DriverID != nil {
		t.Errorf("unexpected created order %+v", created)
	}

	w = f.do(http.MethodPost, "/v1/orders/"+created.ID+"/confirm", nil, "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("confirm: expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if queued := f.enqueuer.Queued(); len(queued) != 1 || queued[0] != created.ID {
		t.Errorf("expected order to be queued, got %v", queued)
	}

	w = f.do(http.MethodPost, "/v1/orders/"+created.ID+"/confirm", nil, "")
	if w.Code != http.StatusConflict {
		t.Errorf("second confirm: expected 409, got %d", w.Code)
	}

	if w = f.do(http.MethodGet, "/v1/orders/missing", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("get missing: expected 404, got %d", w.Code)
	}
}

func TestHTTP_DriverLocationValidation(t *testing.T) {
	f := newHTTPFixture(t)
	f.drivers.AddDriver(&domain.Driver{ID: "d1", Name: "Driver d1"})

	testCases := []struct {
		name string
		body any
		want int
	}{
		{name: "valid", body: map[string]float64{"lat": 27.7, "lng": 85.3}, want: http.StatusNoContent},
		{name: "missing lng", body: map[string]float64{"lat": 27.7}, want: http.StatusBadRequest},
		{name: "out of range", body: map[string]float64{"lat": 100, "lng": 85.3}, want: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if w := f.do(http.MethodPost, "/v1/drivers/d1/location", tc.body, ""); w.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestHTTP_DriverRegisterDuplicatePhone(t *testing.T) {
	f := newHTTPFixture(t)
	body := map[string]string{"name": "Hari", "phone": "9800000002", "travel_mode": "bike"}

	if w := f.do(http.MethodPost, "/v1/drivers/register", body, ""); w.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPost, "/v1/drivers/register", body, ""); w.Code != http.StatusConflict {
		t.Errorf("second register: expected 409, got %d", w.Code)
	}
}

func TestHTTP_AdminAuth(t *testing.T) {
	f := newHTTPFixture(t)

	testCases := []struct {
		name  string
		token string
		want  int
	}{
		{name: "no token", token: "", want: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", want: http.StatusUnauthorized},
		{name: "customer role", token: signToken(t, "u1", "CUSTOMER"), want: http.StatusForbidden},
		{name: "missing user id", token: signToken(t, "", "ADMIN"), want: http.StatusUnauthorized},
		{name: "admin", token: signToken(t, "admin-1", "ADMIN"), want: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if w := f.do(http.MethodGet, "/v1/admin/settings", nil, tc.token); w.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestHTTP_AdminTriggerAssignment(t *testing.T) {
	f := newHTTPFixture(t)
	f.addDriver("d1", domain.TravelModeBike, 0.0315, time.Minute)
	token := signToken(t, "admin-1", "ADMIN")

	w := f.do(http.MethodPost, "/v1/admin/orders/o1/assign", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp handler.OutcomeResponse
	decode(t, w, &resp)
	if resp.Outcome != string(domain.OutcomeAssigned) || resp.DriverID == nil || *resp.DriverID != "d1" {
		t.Fatalf("unexpected outcome %+v", resp)
	}
	if *resp.DistanceKm != 3.5 || *resp.ETAMinutes != 11 {
		t.Errorf("expected 3.5 km / 11 min, got %v / %v", *resp.DistanceKm, *resp.ETAMinutes)
	}

	w = f.do(http.MethodPost, "/v1/admin/orders/o1/assign", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("second trigger: expected 200, got %d", w.Code)
	}
	decode(t, w, &resp)
	if resp.Outcome != string(domain.OutcomeAlreadyAssigned) || resp.DriverID != nil {
		t.Errorf("expected already_assigned without driver, got %+v", resp)
	}
}

func TestHTTP_AdminManualAssignment(t *testing.T) {
	f := newHTTPFixture(t)
	f.drivers.AddDriver(&domain.Driver{ID: "d7", Name: "Driver d7"})
	token := signToken(t, "admin-1", "ADMIN")

	w := f.do(http.MethodPost, "/v1/admin/orders/o1/assign-driver", map[string]string{"driver_id": "d7"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp handler.OrderResponse
	decode(t, w, &resp)
	if resp.DriverID == nil || *resp.DriverID != "d7" || resp.AssignedBy == nil || *resp.AssignedBy != "admin-1" {
		t.Errorf("unexpected order %+v", resp)
	}

	w = f.do(http.MethodPost, "/v1/admin/orders/o1/assign-driver", map[string]string{"driver_id": "d7"}, token)
	if w.Code != http.StatusConflict {
		t.Errorf("second manual assignment: expected 409, got %d", w.Code)
	}
}

func TestHTTP_AdminSettings(t *testing.T) {
	f := newHTTPFixture(t)
	token := signToken(t, "admin-1", "ADMIN")

	if w := f.do(http.MethodPut, "/v1/admin/settings/driver_max_radius_km", map[string]int{"value": 3}, token); w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPut, "/v1/admin/settings/driver_max_radius_km", map[string]int{"value": 0}, token); w.Code != http.StatusBadRequest {
		t.Errorf("zero value: expected 400, got %d", w.Code)
	}
	if w := f.do(http.MethodPut, "/v1/admin/settings/unknown", map[string]int{"value": 3}, token); w.Code != http.StatusBadRequest {
		t.Errorf("unknown key: expected 400, got %d", w.Code)
	}

	w := f.do(http.MethodGet, "/v1/admin/settings", nil, token)
	var settings []handler.SettingResponse
	decode(t, w, &settings)
	got := map[string]int{}
	for _, s := range settings {
		got[s.Key] = s.Value
	}
	if got[domain.SettingMaxRadiusKm] != 3 || got[domain.SettingOnlineTimeoutMinutes] != domain.DefaultOnlineTimeoutMinutes {
		t.Errorf("unexpected settings %v", got)
	}

	// The new radius applies to the next assignment.
	f.addDriver("d1", domain.TravelModeBike, 0.0315, time.Minute)
	w = f.do(http.MethodPost, "/v1/admin/orders/o1/assign", nil, token)
	var resp handler.OutcomeResponse
	decode(t, w, &resp)
	if resp.Outcome != string(domain.OutcomeNoDriversInRadius) {
		t.Errorf("expected no_drivers_in_radius with 3 km radius, got %s", resp.Outcome)
	}
}

func TestHTTP_RestaurantLocationClear(t *testing.T) {
	f := newHTTPFixture(t)

	w := f.do(http.MethodPut, "/v1/restaurants/r1/location", map[string]any{"lat": nil, "lng": nil}, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	token := signToken(t, "admin-1", "ADMIN")
	f.addDriver("d1", domain.TravelModeBike, 0.0315, time.Minute)
	w = f.do(http.MethodPost, "/v1/admin/orders/o1/assign", nil, token)
	var resp handler.OutcomeResponse
	decode(t, w, &resp)
	if resp.Outcome != string(domain.OutcomeRestaurantLocationMissing) {
		t.Errorf("expected restaurant_location_missing, got %s", resp.Outcome)
	}
}
