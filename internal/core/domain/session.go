package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrSessionUnavailable = errors.New("session unavailable")
var ErrInvalidToken = errors.New("invalid token")
var ErrInvalidDevice = errors.New("invalid device id")
var ErrDeviceLimit = errors.New("device limit reached")

// Session is an authenticated identity bound to one device.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	DeviceID  string    `json:"device_id"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Present reports whether s identifies a signed-in user.
func (s *Session) Present() bool {
	return s != nil && s.UserID != ""
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionState is the routing state derived from session presence and role.
type SessionState int32

const (
	StateUnknown SessionState = iota
	StateAnonymous
	StateAuthenticatedUser
	StateAuthenticatedAdmin
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticatedUser:
		return "authenticated_user"
	case StateAuthenticatedAdmin:
		return "authenticated_admin"
	default:
		return "unknown"
	}
}

// Stable reports whether routing decisions may be taken in this state.
func (s SessionState) Stable() bool {
	return s != StateUnknown
}

// Authenticated reports whether the state carries a session.
func (s SessionState) Authenticated() bool {
	return s == StateAuthenticatedUser || s == StateAuthenticatedAdmin
}

// StateForRole maps a resolved role flag to an authenticated state.
func StateForRole(isAdmin bool) SessionState {
	if isAdmin {
		return StateAuthenticatedAdmin
	}
	return StateAuthenticatedUser
}

// Decision is the outcome of evaluating the routing policy.
type Decision struct {
	Redirect bool
	Target   RouteTarget
}

// Stay is the no-navigation decision.
var Stay = Decision{}

// RoutePolicy decides which screen groups each state may occupy.
type RoutePolicy struct {
	// TolerateAuthScreens lets an authenticated non-admin user navigate to
	// welcome/signin/signup. It never applies right after a state
	// transition: a user who just signed in leaves the auth flow.
	TolerateAuthScreens bool
}

// DefaultRoutePolicy matches the mobile app: authenticated users may visit
// the auth screens.
func DefaultRoutePolicy() RoutePolicy {
	return RoutePolicy{TolerateAuthScreens: true}
}

// Allows reports whether state may remain on seg.
func (p RoutePolicy) Allows(state SessionState, seg RouteSegment) bool {
	switch state {
	case StateAnonymous:
		return isAuthScreen(seg)
	case StateAuthenticatedUser:
		return seg == SegmentTabs || (p.TolerateAuthScreens && isAuthScreen(seg))
	case StateAuthenticatedAdmin:
		return seg == SegmentAdmin
	case StateUnknown:
		return true
	default:
		return false
	}
}

// Fallback is where state is sent when its current segment is not allowed.
func (p RoutePolicy) Fallback(state SessionState) (RouteTarget, bool) {
	switch state {
	case StateAnonymous:
		return TargetWelcome, true
	case StateAuthenticatedUser:
		return TargetTabsRoot, true
	case StateAuthenticatedAdmin:
		return TargetAdminRoot, true
	default:
		return 0, false
	}
}

// Decide evaluates the policy for state at seg after a route change.
// Unknown never redirects.
func (p RoutePolicy) Decide(state SessionState, seg RouteSegment) Decision {
	return p.decide(p, state, seg)
}

// DecideTransition evaluates the policy right after the state changed to
// state. Auth screens are not tolerated here.
func (p RoutePolicy) DecideTransition(state SessionState, seg RouteSegment) Decision {
	return p.decide(RoutePolicy{}, state, seg)
}

func (p RoutePolicy) decide(eff RoutePolicy, state SessionState, seg RouteSegment) Decision {
	if !state.Stable() || eff.Allows(state, seg) {
		return Stay
	}
	target, ok := p.Fallback(state)
	if !ok {
		return Stay
	}
	return Decision{Redirect: true, Target: target}
}

func isAuthScreen(seg RouteSegment) bool {
	return seg == SegmentWelcome || seg == SegmentSignIn || seg == SegmentSignUp
}
