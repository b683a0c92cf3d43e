package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/myfishingdiary/internal/app"
	"github.com/mmynk/myfishingdiary/internal/service"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the demo data set",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the demo users, trips and fishing groups",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withSeeder(cmd, func(ctx context.Context, s *service.SeedService) (string, error) {
					return s.Seed(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "drop",
			Short: "Drop the users, trips and fishing groups collections",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withSeeder(cmd, func(ctx context.Context, s *service.SeedService) (string, error) {
					return s.Drop(ctx)
				})
			},
		},
	)
	return cmd
}

func withSeeder(cmd *cobra.Command, fn func(context.Context, *service.SeedService) (string, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	msg, err := fn(ctx, service.NewSeedService(store, logger))
	fmt.Fprint(cmd.OutOrStdout(), msg)
	return err
}
