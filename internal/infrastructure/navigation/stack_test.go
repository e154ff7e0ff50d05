package navigation

import (
	"errors"
	"testing"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

func TestStack_StartsAtRoot(t *testing.T) {
	s := NewStack()
	if s.CurrentPath() != "/" {
		t.Fatalf("expected root path, got %q", s.CurrentPath())
	}
	if s.CurrentRouteSegment() != domain.SegmentOther {
		t.Fatalf("expected root to be SegmentOther, got %s", s.CurrentRouteSegment())
	}
	if s.Back() {
		t.Fatal("root entry must not be popped")
	}
}

func TestStack_PushBackNotify(t *testing.T) {
	s := NewStack()
	calls := 0
	unsubscribe := s.OnRouteChange(func() { calls++ })

	if err := s.Push("/(tabs)/cart"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if s.CurrentRouteSegment() != domain.SegmentTabs {
		t.Fatalf("expected tabs segment, got %s", s.CurrentRouteSegment())
	}
	if !s.Back() {
		t.Fatal("expected back to pop")
	}
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}

	unsubscribe()
	_ = s.Push("/welcome")
	if calls != 2 {
		t.Fatalf("unsubscribed listener was notified")
	}
}

func TestStack_ReplaceRouteIsSilent(t *testing.T) {
	s := NewStack()
	_ = s.Push("/signin")
	calls := 0
	s.OnRouteChange(func() { calls++ })

	s.ReplaceRoute(domain.TargetAdminRoot)

	if s.CurrentPath() != "/admin/stall-dashboard" {
		t.Fatalf("unexpected path after replace: %q", s.CurrentPath())
	}
	if s.Depth() != 2 {
		t.Fatalf("replace must not grow the stack, depth=%d", s.Depth())
	}
	if calls != 0 {
		t.Fatalf("replace must not notify listeners")
	}
}

func TestStack_PushRejectsRelativePath(t *testing.T) {
	s := NewStack()
	if err := s.Push("welcome"); !errors.Is(err, domain.ErrInvalidRoute) {
		t.Fatalf("expected ErrInvalidRoute, got %v", err)
	}
	if s.Depth() != 1 {
		t.Fatalf("rejected push must not change the stack")
	}
}
