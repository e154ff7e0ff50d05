package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

func TestRecorder_CountsRouterActivity(t *testing.T) {
	var r Recorder

	before := testutil.ToFloat64(RouterRedirectsTotal.WithLabelValues("admin_root"))
	r.Redirect(domain.TargetAdminRoot)
	if got := testutil.ToFloat64(RouterRedirectsTotal.WithLabelValues("admin_root")); got != before+1 {
		t.Fatalf("expected redirect counter to grow by one, got %v -> %v", before, got)
	}

	before = testutil.ToFloat64(RouterTransitionsTotal.WithLabelValues("unknown", "authenticated_user"))
	r.Transition(domain.StateUnknown, domain.StateAuthenticatedUser)
	if got := testutil.ToFloat64(RouterTransitionsTotal.WithLabelValues("unknown", "authenticated_user")); got != before+1 {
		t.Fatalf("expected transition counter to grow by one, got %v -> %v", before, got)
	}

	before = testutil.ToFloat64(StaleLookupsTotal)
	r.StaleLookupDiscarded()
	if got := testutil.ToFloat64(StaleLookupsTotal); got != before+1 {
		t.Fatalf("expected stale counter to grow by one, got %v -> %v", before, got)
	}
}

func TestRecorder_QueueDepth(t *testing.T) {
	var r Recorder
	r.Workers(2)
	r.QueueDepth("1", 7)

	if got := testutil.ToFloat64(SessionEventsQueueDepth.WithLabelValues("0")); got != 0 {
		t.Fatalf("expected idle worker at zero, got %v", got)
	}
	if got := testutil.ToFloat64(SessionEventsQueueDepth.WithLabelValues("1")); got != 7 {
		t.Fatalf("expected depth 7, got %v", got)
	}

	r.Delivered(time.Millisecond, errors.New("boom"))
	r.RoleLookup("error", time.Millisecond)
}
