package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/api/handler"
	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
	"github.com/goldenbites/campus-eats/internal/core/service"
)

type stubAuth struct {
	sessions map[string]*domain.Session
}

func (s *stubAuth) Register(context.Context, string, string, string) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (s *stubAuth) Login(context.Context, string, string, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuth) Logout(context.Context, string) error { return nil }

func (s *stubAuth) CurrentSession(_ context.Context, deviceID string) (*domain.Session, error) {
	for _, session := range s.sessions {
		if session.DeviceID == deviceID {
			return session, nil
		}
	}
	return nil, nil
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, domain.ErrInvalidToken
}

type stubRoles map[string]bool

func (r stubRoles) HasAdminRole(_ context.Context, userID string) (bool, error) {
	return r[userID], nil
}

type stubDevices struct{}

func (stubDevices) Settle(_ context.Context, deviceID string) (*ports.DeviceLocation, error) {
	return &ports.DeviceLocation{DeviceID: deviceID, State: domain.StateAnonymous, Path: "/welcome", Segment: domain.SegmentWelcome}, nil
}

func (stubDevices) Navigate(_ context.Context, deviceID, path string) (*ports.DeviceLocation, error) {
	return nil, fmt.Errorf("push %q: %w", path, domain.ErrInvalidRoute)
}

type stubStalls struct{}

func (stubStalls) CreateStallAccount(context.Context, ports.CreateStallInput) (*ports.StallAccount, error) {
	return nil, nil
}

func (stubStalls) Dashboard(_ context.Context, userID string) (*domain.Stall, error) {
	return &domain.Stall{ID: "stall-1", Name: "Taco Corner", OwnerID: userID}, nil
}

// NewRouter registers Prometheus collectors globally, so every route is
// exercised against a single instance.
func TestNewRouter_Routes(t *testing.T) {
	e := NewRouter(Dependencies{
		Auth: &stubAuth{sessions: map[string]*domain.Session{
			"owner-token":   {ID: "s1", UserID: "owner", DeviceID: "tablet-1"},
			"student-token": {ID: "s2", UserID: "ana", DeviceID: "phone-1"},
		}},
		Roles:   stubRoles{"owner": true},
		Devices: stubDevices{},
		Stalls:  stubStalls{},
		Checks:  map[string]handler.DependencyCheck{"redis": func(context.Context) error { return nil }},
		Log:     zerolog.Nop(),
	})

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		code   int
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"device route", http.MethodGet, "/v1/devices/kiosk-1/route", "", "", http.StatusOK},
		{"invalid route", http.MethodPut, "/v1/devices/kiosk-1/route", "", `{"path":"/ bad"}`, http.StatusUnprocessableEntity},
		{"signed-in device without token", http.MethodGet, "/v1/devices/phone-1/route", "", "", http.StatusUnauthorized},
		{"signed-in device with own token", http.MethodGet, "/v1/devices/phone-1/route", "student-token", "", http.StatusOK},
		{"signed-in device with foreign token", http.MethodPut, "/v1/devices/phone-1/route", "owner-token", `{"path":"/(tabs)"}`, http.StatusForbidden},
		{"login failure", http.MethodPost, "/auth/login", "", `{"email":"a@school.edu","password":"x","device_id":"d"}`, http.StatusUnauthorized},
		{"register conflict", http.MethodPost, "/auth/register", "", `{"name":"A","email":"a@school.edu","password":"password123"}`, http.StatusConflict},
		{"logout without token", http.MethodPost, "/auth/logout", "", "", http.StatusUnauthorized},
		{"logout", http.MethodPost, "/auth/logout", "student-token", "", http.StatusNoContent},
		{"dashboard as admin", http.MethodGet, "/v1/admin/stall", "owner-token", "", http.StatusOK},
		{"dashboard as student", http.MethodGet, "/v1/admin/stall", "student-token", "", http.StatusForbidden},
		{"dashboard bad token", http.MethodGet, "/v1/admin/stall", "forged", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			}
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestResolveError(t *testing.T) {
	e := echo.New()
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUserExists, http.StatusConflict},
		{fmt.Errorf("dashboard: %w", domain.ErrAdminNotFound), http.StatusNotFound},
		{domain.ErrInvalidDevice, http.StatusBadRequest},
		{fmt.Errorf("refresh: %w", domain.ErrSessionUnavailable), http.StatusServiceUnavailable},
		{service.ErrRouterStopped, http.StatusServiceUnavailable},
		{domain.ErrDeviceLimit, http.StatusServiceUnavailable},
		{echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if got, _ := resolveError(tc.err, zerolog.Nop(), c); got != tc.want {
			t.Errorf("resolveError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
