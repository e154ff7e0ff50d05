package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldenbites/campus-eats/internal/core/ports"
)

// RequireAdmin admits only sessions whose user holds the administrative
// role. A failed role lookup is treated as not admin.
func RequireAdmin(roles ports.RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFrom(c)
			if !session.Present() {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			isAdmin, err := roles.HasAdminRole(c.Request().Context(), session.UserID)
			if err != nil || !isAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
