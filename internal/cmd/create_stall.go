package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goldenbites/campus-eats/internal/core/ports"
	"github.com/goldenbites/campus-eats/internal/core/service"
	mongostore "github.com/goldenbites/campus-eats/internal/infrastructure/db/mongo"
	"github.com/goldenbites/campus-eats/pkg/logger"
)

var stallInput ports.CreateStallInput

var createStallCmd = &cobra.Command{
	Use:   "create-stall",
	Short: "Create a stall and its owner account",
	Long: `Create a stall-owner account: the user, the stall and the admin record
that grants the owner the stall dashboard.

Example:
  campus-eats create-stall --name "Taco Corner" --location "Engineering Quad" \
    --email tacos@school.edu --password 's3cret-pass'`,
	RunE: runCreateStall,
}

func init() {
	f := createStallCmd.Flags()
	f.StringVar(&stallInput.Name, "name", "", "stall name")
	f.StringVar(&stallInput.Location, "location", "", "where on campus the stall is")
	f.StringVar(&stallInput.Email, "email", "", "owner sign-in email")
	f.StringVar(&stallInput.Password, "password", "", "owner password (min 8 characters)")
	f.StringVar(&stallInput.Phone, "phone", "", "contact phone")
	for _, name := range []string{"name", "location", "email", "password"} {
		_ = createStallCmd.MarkFlagRequired(name)
	}
}

func runCreateStall(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	users := mongostore.NewUserRepository(db)
	stalls := mongostore.NewStallRepository(db)
	admins := mongostore.NewAdminRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, stalls, admins); err != nil {
		return err
	}

	// Registration touches neither the session store nor session events.
	auth := service.NewAuthService(users, nil, nil, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	svc := service.NewStallService(auth, stalls, admins, logger.Component("stalls"))

	account, err := svc.CreateStallAccount(ctx, stallInput)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "stall %s (%s) created for %s\n", account.Stall.ID, account.Stall.Name, account.User.Email)
	return nil
}
