// Package cmd holds the campus-eats command line.
package cmd

import (
	"context"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/goldenbites/campus-eats/internal/pkg/config"
	"github.com/goldenbites/campus-eats/pkg/logger"
)

const serviceName = "campus-eats"

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Campus food-ordering backend",
	Long: `campus-eats serves sign-in, per-device screen routing and stall
administration for the campus food-ordering app.

Configuration is read from the environment (PORT, MONGO_URI, REDIS_ADDR,
JWT_SECRET, ...).`,
	SilenceUsage: true,
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createStallCmd)
}

// loadConfig reads the environment and initialises the process logger.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadFrom(ctx, envconfig.OsLookuper())
	if err != nil {
		return nil, err
	}
	logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, serviceName))
	return cfg, nil
}
