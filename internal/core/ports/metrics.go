package ports

import (
	"time"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// RouterMetrics observes session-router activity.
type RouterMetrics interface {
	Transition(from, to domain.SessionState)
	Redirect(target domain.RouteTarget)
	RoleLookup(result string, d time.Duration)
	StaleLookupDiscarded()
}

// NopRouterMetrics discards every observation.
type NopRouterMetrics struct{}

func (NopRouterMetrics) Transition(domain.SessionState, domain.SessionState) {}
func (NopRouterMetrics) Redirect(domain.RouteTarget)                       {}
func (NopRouterMetrics) RoleLookup(string, time.Duration)                  {}
func (NopRouterMetrics) StaleLookupDiscarded()                             {}
