package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldenbites/campus-eats/internal/api/middleware"
	"github.com/goldenbites/campus-eats/internal/core/domain"
)

// ctxSession returns the session injected by the Auth middleware and fails
// fast when it is absent, which means the route was wired without Auth.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.SessionFrom(c)
	if !s.Present() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return s, nil
}
