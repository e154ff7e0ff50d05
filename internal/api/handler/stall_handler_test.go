package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

type stubStallService struct {
	stalls map[string]*domain.Stall
}

func (s *stubStallService) CreateStallAccount(context.Context, ports.CreateStallInput) (*ports.StallAccount, error) {
	return nil, nil
}

func (s *stubStallService) Dashboard(_ context.Context, userID string) (*domain.Stall, error) {
	stall, ok := s.stalls[userID]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return stall, nil
}

func TestStallHandler_Dashboard(t *testing.T) {
	e := newTestEcho()
	h := NewStallHandler(&stubStallService{stalls: map[string]*domain.Stall{
		"owner": {ID: "stall-1", Name: "Taco Corner", Location: "Quad", OwnerID: "owner"},
	}})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/admin/stall", nil), rec)
	c.Set("session", &domain.Session{UserID: "owner", DeviceID: "tablet-1"})
	serve(e, c, h.Dashboard)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stall domain.Stall
	if err := json.Unmarshal(rec.Body.Bytes(), &stall); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if stall.ID != "stall-1" || stall.Name != "Taco Corner" {
		t.Fatalf("unexpected stall: %+v", stall)
	}
}

func TestStallHandler_Dashboard_RequiresSession(t *testing.T) {
	e := newTestEcho()
	h := NewStallHandler(&stubStallService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/admin/stall", nil), rec)
	serve(e, c, h.Dashboard)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
