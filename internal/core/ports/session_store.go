package ports

import (
	"context"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// SessionStore persists the live session of each device.
type SessionStore interface {
	// Save stores s as the session of s.DeviceID, replacing any previous one.
	Save(ctx context.Context, s *domain.Session) error
	// FindByDevice returns domain.ErrSessionNotFound when the device has no
	// live session.
	FindByDevice(ctx context.Context, deviceID string) (*domain.Session, error)
	// Delete removes the device's session. Deleting a missing session is not
	// an error.
	Delete(ctx context.Context, deviceID string) error
}
