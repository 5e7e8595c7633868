// cmd/admin/seed.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otakughor/backend/internal/database"
)

func newSeedCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo product catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := database.SeedProducts(cmd.Context(), a.store, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "seed even when products already exist")
	return cmd
}
