package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// DeviceSessions resolves tokens and reads the live session of a device.
type DeviceSessions interface {
	Authenticator
	CurrentSession(ctx context.Context, deviceID string) (*domain.Session, error)
}

// DeviceOwner guards routes keyed by the :device_id param. A signed-in
// device only answers to its own bearer token; a signed-out device is open
// so the welcome and sign-in screens work before login.
func DeviceOwner(sessions DeviceSessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deviceID := c.Param("device_id")

			current, err := sessions.CurrentSession(c.Request().Context(), deviceID)
			if err != nil {
				return err
			}
			if !current.Present() {
				return next(c)
			}

			session, err := authenticate(c, sessions)
			if err != nil {
				return err
			}
			if session.DeviceID != deviceID {
				return echo.NewHTTPError(http.StatusForbidden, "session belongs to another device")
			}
			setSession(c, session)
			return next(c)
		}
	}
}
