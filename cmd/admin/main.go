// cmd/admin/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/database"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/store"
	"github.com/otakughor/backend/internal/utils"
)

// app holds what every subcommand needs once the store is open.
type app struct {
	cfg    *config.Config
	store  store.Store
	admins *services.AdminService
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "otakughor-admin",
		Short:         "Administrative tasks for the Otaku Ghor backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.AddCommand(newAdminCmd(a), newSeedCmd(a))
	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	utils.ConfigureLogger(cfg.Log, cfg.IsProduction())

	if ctx == nil {
		ctx = context.Background()
	}
	st, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	a.cfg = cfg
	a.store = st
	// Account commands only reach the admin repository.
	a.admins = services.NewAdminService(repository.NewAdminRepository(st), nil, nil, nil, nil, nil, nil)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		logrus.WithError(err).Error("Error closing store")
		return err
	}
	return nil
}
