package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

const sessionKey = "session"

// Authenticator resolves a bearer token to the live session it names.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Auth validates the bearer token against the session store and injects the
// session into the context.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := authenticate(c, authn)
			if err != nil {
				return err
			}
			setSession(c, session)
			return next(c)
		}
	}
}

func authenticate(c echo.Context, authn Authenticator) (*domain.Session, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	session, err := authn.Authenticate(c.Request().Context(), parts[1])
	if errors.Is(err, domain.ErrInvalidToken) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func setSession(c echo.Context, session *domain.Session) {
	c.Set(sessionKey, session)
	c.Set("user_id", session.UserID)
	c.Set("device_id", session.DeviceID)
}

// SessionFrom returns the session injected by Auth, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionKey).(*domain.Session)
	return s
}
