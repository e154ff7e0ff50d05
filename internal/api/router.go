package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/goldenbites/campus-eats/internal/api/handler"
	"github.com/goldenbites/campus-eats/internal/api/middleware"
	"github.com/goldenbites/campus-eats/internal/core/ports"
)

const metricsSubsystem = "http"

// Dependencies are the services the HTTP API is built on.
type Dependencies struct {
	Auth    ports.AuthService
	Roles   ports.RoleResolver
	Devices ports.DeviceRouter
	Stalls  ports.StallService
	Checks  map[string]handler.DependencyCheck
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// It registers HTTP metrics with the default Prometheus registry, so it must
// be called once per process.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware(metricsSubsystem))

	authHandler := handler.NewAuthHandler(deps.Auth)
	routeHandler := handler.NewRouteHandler(deps.Devices)
	stallHandler := handler.NewStallHandler(deps.Stalls)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	requireSession := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireSession)

	// --- Device navigation ---
	v1 := e.Group("/v1")
	devices := v1.Group("/devices/:device_id", middleware.DeviceOwner(deps.Auth))
	devices.GET("/route", routeHandler.Get)
	devices.PUT("/route", routeHandler.Navigate)

	// --- Stall administration ---
	admin := v1.Group("/admin", requireSession, middleware.RequireAdmin(deps.Roles))
	admin.GET("/stall", stallHandler.Dashboard)

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
