package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldenbites/campus-eats/internal/api/metrics"
	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	observeAuth("register", err)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name, email and password are required")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login opens a session for the device named in the body.
//
// @Summary      Sign in on a device
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials and device id"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.DeviceID)
	observeAuth("login", err)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Unknown accounts are indistinguishable from wrong passwords.
		return domain.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Token:     session.Token,
		UserID:    session.UserID,
		Email:     session.Email,
		DeviceID:  session.DeviceID,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout closes the session the bearer token belongs to.
//
// @Summary      Sign out the current device
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	err = h.authService.Logout(c.Request().Context(), session.DeviceID)
	observeAuth("logout", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func observeAuth(action string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
		outcome = "invalid_credentials"
	case errors.Is(err, domain.ErrUserExists):
		outcome = "conflict"
	default:
		outcome = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(action, outcome).Inc()
}
