package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldenbites/campus-eats/internal/core/ports"
)

// RouteHandler exposes the routed screen of each client device.
type RouteHandler struct {
	devices ports.DeviceRouter
}

func NewRouteHandler(devices ports.DeviceRouter) *RouteHandler {
	return &RouteHandler{devices: devices}
}

// Get handles GET /v1/devices/:device_id/route.
//
// @Summary      Current screen of a device
// @Tags         devices
// @Produce      json
// @Param        device_id  path      string  true  "Client device id"
// @Success      200        {object}  routeResponse
// @Failure      400        {object}  errorResponse
// @Router       /v1/devices/{device_id}/route [get]
func (h *RouteHandler) Get(c echo.Context) error {
	loc, err := h.devices.Settle(c.Request().Context(), c.Param("device_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRouteResponse(loc))
}

// Navigate handles PUT /v1/devices/:device_id/route. The response is the
// route the device ends on, which differs from the request when the session
// does not allow it.
//
// @Summary      Navigate a device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        device_id  path      string           true  "Client device id"
// @Param        body       body      navigateRequest  true  "Target path"
// @Success      200        {object}  routeResponse
// @Failure      400        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/devices/{device_id}/route [put]
func (h *RouteHandler) Navigate(c echo.Context) error {
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	loc, err := h.devices.Navigate(c.Request().Context(), c.Param("device_id"), req.Path)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRouteResponse(loc))
}

func toRouteResponse(loc *ports.DeviceLocation) routeResponse {
	return routeResponse{
		DeviceID: loc.DeviceID,
		State:    loc.State.String(),
		Path:     loc.Path,
		Segment:  loc.Segment.String(),
	}
}
