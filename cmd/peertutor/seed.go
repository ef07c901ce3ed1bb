package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/app"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
)

// Default timeout for the seed command.
const defaultSeedTimeout = 30 * time.Second

type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the subject catalogue",
		Long: `Upserts every subject in the catalogue by name. Existing subjects keep
their id and the interests pointing at them, so the command can be rerun.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "", "YAML catalogue to load (default: PEERTUTOR_SUBJECTS_FILE or the built-in catalogue)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	appCfg, err := app.LoadConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	file := cfg.file
	if file == "" {
		file = appCfg.SubjectsFile
	}

	entries, err := app.LoadCatalogue(file)
	if err != nil {
		return oops.Code("CATALOGUE_INVALID").With("file", file).Wrap(err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	db, err := app.OpenStore(appCfg.DatabaseFile)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "open database").Wrap(err)
	}
	defer db.Close()

	catalog := &service.CatalogService{Store: db}
	n, err := catalog.Seed(ctx, entries)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "seed subjects").Wrap(err)
	}

	cmd.Printf("seeded %d subjects\n", n)
	return nil
}
