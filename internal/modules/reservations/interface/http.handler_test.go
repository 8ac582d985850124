package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"mesaYaReservas/internal/modules/reservations/application/usecase"
	"mesaYaReservas/internal/modules/reservations/domain"
	"mesaYaReservas/internal/modules/reservations/infrastructure"
	tables "mesaYaReservas/internal/modules/tables/domain"
	"mesaYaReservas/internal/shared/auth"
	"mesaYaReservas/internal/shared/httputil"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*echo.Echo, *infrastructure.SQLiteStore) {
	t.Helper()
	ctx := context.Background()
	store, err := infrastructure.OpenSQLiteStore(ctx, filepath.Join(t.TempDir(), "http.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.UpsertTable(ctx, tables.Table{ID: "A", Capacity: 4, Active: true}); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	resolver := usecase.NewSettingsResolver(store)
	submit := usecase.NewSubmitReservationUseCase(resolver, store, store, time.UTC)
	handler := NewHandler(submit, usecase.NewListReservationsUseCase(store), resolver)

	e := echo.New()
	api := e.Group("/api")
	admin := api.Group("/admin", httputil.RequireRoles(auth.NewJWTValidator(testSecret, ""), []string{"admin"}))
	handler.Register(api, admin)
	return e, store
}

func adminToken(t *testing.T, roles ...string) string {
	t.Helper()
	claims := auth.Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func submitJSON(e *echo.Echo, body string) (*httptest.ResponseRecorder, domain.SubmissionResult) {
	req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)
	var result domain.SubmissionResult
	_ = json.Unmarshal(rec.Body.Bytes(), &result)
	return rec, result
}

func TestSubmitEndpointStatusCodes(t *testing.T) {
	t.Parallel()
	e, _ := newTestServer(t)

	rec, result := submitJSON(e, `{"date":"2025-06-01","time":"20:00","partySize":2,"name":"Ana","email":"a@x.com","phone":"600000000","lang":"en"}`)
	if rec.Code != http.StatusOK || !result.Success || result.TableID != "A" {
		t.Fatalf("expected accepted booking, got %d %+v", rec.Code, result)
	}

	rec, result = submitJSON(e, `{"date":"2025-06-01","time":"21:00","partySize":2,"name":"Bea","email":"b@x.com","phone":"600000001","lang":"en"}`)
	if rec.Code != http.StatusConflict || result.Reason != domain.ReasonFullyBooked {
		t.Fatalf("expected 409 fully booked, got %d %+v", rec.Code, result)
	}

	rec, result = submitJSON(e, `{"date":"2025-06-01","time":"20:00","partySize":9,"name":"Eva","email":"e@x.com","phone":"600000002"}`)
	if rec.Code != http.StatusConflict || result.Reason != domain.ReasonNoCapacity {
		t.Fatalf("expected 409 no capacity, got %d %+v", rec.Code, result)
	}

	rec, result = submitJSON(e, `{"date":"2025-06-01","time":"20:00","partySize":2}`)
	if rec.Code != http.StatusUnprocessableEntity || result.Reason != domain.ReasonValidation {
		t.Fatalf("expected 422 validation, got %d %+v", rec.Code, result)
	}
	if result.Message != "Todos los campos son obligatorios." {
		t.Fatalf("expected spanish default message, got %q", result.Message)
	}
}

func TestSubmitEndpointAcceptsForm(t *testing.T) {
	t.Parallel()
	e, _ := newTestServer(t)

	form := url.Values{}
	form.Set("date", "2025-06-01")
	form.Set("time", "13:30")
	form.Set("partySize", "3")
	form.Set("name", "Ana")
	form.Set("email", "a@x.com")
	form.Set("phone", "600000000")
	req := httptest.NewRequest(http.MethodPost, "/api/reservations?lang=en", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := serve(e, req)
	var result domain.SubmissionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || !result.Success || result.Status != domain.ReservationStatusPending {
		t.Fatalf("expected pending booking, got %d %+v", rec.Code, result)
	}

	bad := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader("partySize=many"))
	bad.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if rec := serve(e, bad); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unparseable form, got %d", rec.Code)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	t.Parallel()
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2025-06-01&time=20:00&partySize=2", nil)
	req.Header.Set("Accept-Language", "en-US")
	rec := serve(e, req)
	var result domain.AvailabilityResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || !result.Available || result.TableID != "A" || result.Mode != domain.ModeTables {
		t.Fatalf("unexpected availability %d %+v", rec.Code, result)
	}
}

func TestServiceHoursEndpoint(t *testing.T) {
	t.Parallel()
	e, store := newTestServer(t)
	if err := store.SetValue(context.Background(), domain.KeyLunchStart, "12:30"); err != nil {
		t.Fatalf("set value: %v", err)
	}

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/settings/service-hours", nil))
	var hours domain.ServiceHours
	if err := json.Unmarshal(rec.Body.Bytes(), &hours); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hours.Lunch.Start != "12:30" || hours.Dinner.End != "23:30" {
		t.Fatalf("unexpected hours %+v", hours)
	}
}

func TestAdminListingsRequireRole(t *testing.T) {
	t.Parallel()
	e, _ := newTestServer(t)
	submitJSON(e, `{"date":"2025-06-01","time":"20:00","partySize":2,"name":"Ana","email":"a@x.com","phone":"600000000"}`)

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{name: "missing token", token: "", status: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", status: http.StatusUnauthorized},
		{name: "wrong role", token: adminToken(t, "guest"), status: http.StatusForbidden},
		{name: "admin", token: adminToken(t, "ADMIN"), status: http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/reservations?from=2025-06-01&to=2025-06-30", nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		if rec := serve(e, req); rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reservations/recent?limit=3&token="+adminToken(t, "admin"), nil)
	rec := serve(e, req)
	var body struct {
		Items []domain.Reservation `json:"items"`
		Count int                  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || body.Count != 1 || body.Items[0].Name != "Ana" {
		t.Fatalf("unexpected recent listing %d %+v", rec.Code, body)
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/admin/reservations?from=2025-06-30&to=2025-06-01", nil)
	bad.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	if rec := serve(e, bad); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for inverted range, got %d", rec.Code)
	}
}
