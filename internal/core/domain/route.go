package domain

import (
	"errors"
	"strings"
)

var ErrInvalidRoute = errors.New("invalid route path")

// RouteSegment is the screen group a route path belongs to.
type RouteSegment int

const (
	SegmentOther RouteSegment = iota
	SegmentWelcome
	SegmentSignIn
	SegmentSignUp
	SegmentAdmin
	SegmentTabs
)

func (s RouteSegment) String() string {
	switch s {
	case SegmentWelcome:
		return "welcome"
	case SegmentSignIn:
		return "signin"
	case SegmentSignUp:
		return "signup"
	case SegmentAdmin:
		return "admin"
	case SegmentTabs:
		return "tabs"
	default:
		return "other"
	}
}

// ParseRouteSegment maps a route path to its segment using the first path
// element. Unrecognised paths, including the root, map to SegmentOther.
func ParseRouteSegment(path string) RouteSegment {
	first := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(first, "/?#"); i >= 0 {
		first = first[:i]
	}

	switch first {
	case "welcome":
		return SegmentWelcome
	case "signin":
		return SegmentSignIn
	case "signup":
		return SegmentSignUp
	case "admin":
		return SegmentAdmin
	case "(tabs)", "tabs":
		return SegmentTabs
	default:
		return SegmentOther
	}
}

// RouteTarget is a destination the router may redirect to.
type RouteTarget int

const (
	TargetWelcome RouteTarget = iota + 1
	TargetTabsRoot
	TargetAdminRoot
)

// Path returns the route path a target resolves to.
func (t RouteTarget) Path() string {
	switch t {
	case TargetWelcome:
		return "/welcome"
	case TargetTabsRoot:
		return "/(tabs)"
	case TargetAdminRoot:
		return "/admin/stall-dashboard"
	default:
		return "/"
	}
}

func (t RouteTarget) String() string {
	switch t {
	case TargetWelcome:
		return "welcome"
	case TargetTabsRoot:
		return "tabs_root"
	case TargetAdminRoot:
		return "admin_root"
	default:
		return "none"
	}
}

// ValidRoutePath reports whether path is an absolute route path.
func ValidRoutePath(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.ContainsAny(path, " \t\n")
}
