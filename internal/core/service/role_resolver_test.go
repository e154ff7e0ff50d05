package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

type stubAdminRepo struct {
	admins map[string]*domain.Admin
	err    error
	calls  int
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{admins: make(map[string]*domain.Admin)}
}

func (r *stubAdminRepo) FindByUserID(_ context.Context, userID string) (*domain.Admin, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.admins[userID]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAdminRepo) Create(_ context.Context, a *domain.Admin) error {
	if r.err != nil {
		return r.err
	}
	clone := *a
	r.admins[a.UserID] = &clone
	return nil
}

func TestAdminRoleResolver_HasAdminRole(t *testing.T) {
	repo := newStubAdminRepo()
	repo.admins["owner"] = &domain.Admin{UserID: "owner", StallID: "stall-1"}
	resolver := NewAdminRoleResolver(repo, zerolog.Nop())
	ctx := context.Background()

	isAdmin, err := resolver.HasAdminRole(ctx, "owner")
	if err != nil || !isAdmin {
		t.Fatalf("expected admin, got %v, %v", isAdmin, err)
	}

	isAdmin, err = resolver.HasAdminRole(ctx, "student")
	if err != nil || isAdmin {
		t.Fatalf("missing record must be a plain false, got %v, %v", isAdmin, err)
	}
}

func TestAdminRoleResolver_EmptyUserSkipsLookup(t *testing.T) {
	repo := newStubAdminRepo()
	resolver := NewAdminRoleResolver(repo, zerolog.Nop())

	isAdmin, err := resolver.HasAdminRole(context.Background(), "")
	if err != nil || isAdmin {
		t.Fatalf("expected false, got %v, %v", isAdmin, err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository call, got %d", repo.calls)
	}
}

func TestAdminRoleResolver_LookupFailureIsNotAdmin(t *testing.T) {
	repo := newStubAdminRepo()
	repo.err = errors.New("server selection timeout")
	resolver := NewAdminRoleResolver(repo, zerolog.Nop())

	isAdmin, err := resolver.HasAdminRole(context.Background(), "owner")
	if isAdmin {
		t.Fatal("lookup failure must never grant admin")
	}
	if err == nil {
		t.Fatal("expected the failure to be reported")
	}
}
