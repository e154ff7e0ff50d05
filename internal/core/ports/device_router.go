package ports

import (
	"context"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// DeviceLocation is where a device currently is and what it may do there.
type DeviceLocation struct {
	DeviceID string
	State    domain.SessionState
	Path     string
	Segment  domain.RouteSegment
}

// DeviceRouter exposes the navigation of every client device.
type DeviceRouter interface {
	// Settle returns the device's location once every pending session and
	// route change has been applied.
	Settle(ctx context.Context, deviceID string) (*DeviceLocation, error)
	// Navigate moves the device to path and returns where the routing policy
	// leaves it.
	Navigate(ctx context.Context, deviceID, path string) (*DeviceLocation, error)
}
