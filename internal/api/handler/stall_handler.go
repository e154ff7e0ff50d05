package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldenbites/campus-eats/internal/core/ports"
)

type StallHandler struct {
	stalls ports.StallService
}

func NewStallHandler(stalls ports.StallService) *StallHandler {
	return &StallHandler{stalls: stalls}
}

// Dashboard handles GET /v1/admin/stall.
//
// @Summary      Stall administered by the caller
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Stall
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/stall [get]
func (h *StallHandler) Dashboard(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	stall, err := h.stalls.Dashboard(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stall)
}
