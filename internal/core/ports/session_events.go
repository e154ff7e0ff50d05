package ports

import (
	"context"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// SessionEvent announces that a device's session changed. A nil Session
// means the device signed out.
type SessionEvent struct {
	DeviceID string
	Session  *domain.Session
}

// SessionEventPublisher accepts session events for ordered delivery.
type SessionEventPublisher interface {
	Publish(event SessionEvent)
}

// SessionEventSink consumes session events in per-device order.
type SessionEventSink interface {
	Deliver(ctx context.Context, event SessionEvent) error
}
