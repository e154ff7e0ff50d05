package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Router RouterConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=campus_eats"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// RouterConfig tunes the per-device session routers.
type RouterConfig struct {
	DispatchWorkers     int           `env:"DISPATCH_WORKERS,             default=8"`
	RoleLookupTimeout   time.Duration `env:"ROLE_LOOKUP_TIMEOUT,          default=5s"`
	SessionSweep        time.Duration `env:"SESSION_SWEEP_INTERVAL,       default=1m"`
	TolerateAuthScreens bool          `env:"ROUTER_TOLERATE_AUTH_SCREENS, default=true"`
	MaxDevices          int           `env:"ROUTER_MAX_DEVICES,           default=10000"`
	DeviceIdleTTL       time.Duration `env:"ROUTER_DEVICE_IDLE_TTL,       default=30m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Router.DispatchWorkers <= 0 {
		return fmt.Errorf("config: DISPATCH_WORKERS must be positive, got %d", c.Router.DispatchWorkers)
	}
	if c.Router.MaxDevices <= 0 {
		return fmt.Errorf("config: ROUTER_MAX_DEVICES must be positive, got %d", c.Router.MaxDevices)
	}
	if c.Router.RoleLookupTimeout <= 0 {
		return fmt.Errorf("config: ROLE_LOOKUP_TIMEOUT must be positive, got %s", c.Router.RoleLookupTimeout)
	}
	return nil
}
