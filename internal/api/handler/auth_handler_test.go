package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password, deviceID string) (*domain.Session, error)
	logoutFn   func(ctx context.Context, deviceID string) error
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, deviceID string) (*domain.Session, error) {
	return s.loginFn(ctx, email, password, deviceID)
}

func (s *stubAuthService) Logout(ctx context.Context, deviceID string) error {
	return s.logoutFn(ctx, deviceID)
}

func (s *stubAuthService) CurrentSession(context.Context, string) (*domain.Session, error) {
	return nil, nil
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidToken
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// serve runs h and renders a returned error the way Echo would.
func serve(e *echo.Echo, c echo.Context, h echo.HandlerFunc) {
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, name, email, password string) (*domain.User, error) {
			if name != "Ana" || email != "ana@school.edu" || password != "password123" {
				t.Fatalf("unexpected args: %s %s %s", name, email, password)
			}
			return &domain.User{ID: "u1", Name: name, Email: email, PasswordHash: "hash"}, nil
		},
	}
	h := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"name":"Ana","email":"ana@school.edu","password":"password123"}`), rec)
	serve(e, c, h.Register)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["email"] != "ana@school.edu" {
		t.Fatalf("unexpected body: %v", resp)
	}
	if _, leaked := resp["PasswordHash"]; leaked {
		t.Fatalf("password hash must not be rendered")
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"name":"Ana","email":"nope","password":"short"}`), rec)
	serve(e, c, h.Register)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email must be a valid email") || !strings.Contains(rec.Body.String(), "password must be at least 8") {
		t.Fatalf("expected field messages, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	expires := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, email, password, deviceID string) (*domain.Session, error) {
			if deviceID != "phone-1" {
				t.Fatalf("unexpected device: %s", deviceID)
			}
			return &domain.Session{ID: "s1", UserID: "u1", Email: email, DeviceID: deviceID, Token: "tok", ExpiresAt: expires}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"ana@school.edu","password":"password123","device_id":"phone-1"}`), rec)
	serve(e, c, h.Login)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "tok" || resp.DeviceID != "phone-1" || !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string, string) (*domain.Session, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"ghost@school.edu","password":"password123","device_id":"phone-1"}`), rec)
	err := h.Login(c)

	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingDevice(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"ana@school.edu","password":"password123"}`), rec)
	serve(e, c, h.Login)

	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "device_id is required") {
		t.Fatalf("expected 422 naming device_id, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var loggedOut string
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, deviceID string) error {
			loggedOut = deviceID
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)
	c.Set("session", &domain.Session{ID: "s1", UserID: "u1", DeviceID: "phone-1"})
	serve(e, c, h.Logout)

	if rec.Code != http.StatusNoContent || loggedOut != "phone-1" {
		t.Fatalf("expected 204 for phone-1, got %d for %q", rec.Code, loggedOut)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)
	serve(e, c, h.Logout)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}
