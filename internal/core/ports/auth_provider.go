package ports

import (
	"context"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// AuthProvider holds the session of a single device and announces changes.
type AuthProvider interface {
	// CurrentSession returns the live session, or nil when signed out.
	CurrentSession(ctx context.Context) (*domain.Session, error)
	// OnSessionChange registers handler for every later session change.
	// Handlers receive nil when the session is cleared.
	OnSessionChange(handler func(*domain.Session)) (unsubscribe func())
}

// RoleResolver answers whether a user holds the administrative role.
// Implementations report lookup failures through err; callers treat any
// error as "not an admin".
type RoleResolver interface {
	HasAdminRole(ctx context.Context, userID string) (bool, error)
}

// Navigator is the screen stack the session router steers.
type Navigator interface {
	CurrentRouteSegment() domain.RouteSegment
	ReplaceRoute(target domain.RouteTarget)
}

// RouteStack is a Navigator the client drives directly.
type RouteStack interface {
	Navigator
	Push(path string) error
	Back() bool
	CurrentPath() string
	OnRouteChange(fn func()) (unsubscribe func())
}
