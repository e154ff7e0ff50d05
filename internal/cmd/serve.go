package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goldenbites/campus-eats/internal/api"
	"github.com/goldenbites/campus-eats/internal/api/handler"
	"github.com/goldenbites/campus-eats/internal/api/metrics"
	"github.com/goldenbites/campus-eats/internal/core/domain"
	"github.com/goldenbites/campus-eats/internal/core/ports"
	"github.com/goldenbites/campus-eats/internal/core/service"
	mongostore "github.com/goldenbites/campus-eats/internal/infrastructure/db/mongo"
	redisstore "github.com/goldenbites/campus-eats/internal/infrastructure/db/redis"
	"github.com/goldenbites/campus-eats/internal/infrastructure/navigation"
	"github.com/goldenbites/campus-eats/internal/infrastructure/queue"
	"github.com/goldenbites/campus-eats/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.Get()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongostore.NewUserRepository(db)
	stalls := mongostore.NewStallRepository(db)
	admins := mongostore.NewAdminRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, stalls, admins); err != nil {
		return err
	}

	recorder := metrics.Recorder{}
	dispatcher := queue.NewDispatcher(cfg.Router.DispatchWorkers, recorder, logger.Component("dispatcher"))
	recorder.Workers(dispatcher.Workers())

	authService := service.NewAuthService(users, redisstore.NewSessionStore(rdb), dispatcher, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	roles := service.NewAdminRoleResolver(admins, logger.Component("roles"))
	stallService := service.NewStallService(authService, stalls, admins, logger.Component("stalls"))

	hub := service.NewSessionHub(authService, logger.Component("hub"))
	// Workers outlive ctx so logins and logouts drained by Shutdown still
	// reach their devices.
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()
	dispatcher.Start(dispatchCtx, hub)

	registry := service.NewDeviceRegistry(
		hub,
		roles,
		func(string) ports.RouteStack { return navigation.NewStack() },
		service.RegistryConfig{
			Router: service.RouterConfig{
				Policy:        domain.RoutePolicy{TolerateAuthScreens: cfg.Router.TolerateAuthScreens},
				LookupTimeout: cfg.Router.RoleLookupTimeout,
				Metrics:       recorder,
			},
			MaxDevices: cfg.Router.MaxDevices,
			IdleTTL:    cfg.Router.DeviceIdleTTL,
		},
		logger.Component("router"),
	)
	defer registry.Close()
	go registry.WatchExpiry(ctx, cfg.Router.SessionSweep)

	e := api.NewRouter(api.Dependencies{
		Auth:    authService,
		Roles:   roles,
		Devices: registry,
		Stalls:  stallService,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
