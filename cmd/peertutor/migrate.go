package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/app"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/store/drivers/sqlite"
)

// NewMigrateCmd creates the migrate subcommand and its up/down/version
// children. Bare "migrate" behaves like "migrate up".
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations to the SQLite database named by PEERTUTOR_DATABASE_FILE.`,
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE:  runMigrateVersion,
	})

	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	db, err := app.OpenStore(cfg.DatabaseFile)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	defer db.Close()

	return printVersion(cmd, db)
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	steps := 1
	if len(args) == 1 {
		n, err := parseSteps(args[0])
		if err != nil {
			return err
		}
		steps = n
	}

	db, err := openRawStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RollbackMigrations(steps); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "roll back migrations").Wrap(err)
	}
	return printVersion(cmd, db)
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	db, err := openRawStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return printVersion(cmd, db)
}

// parseSteps accepts a positive step count.
func parseSteps(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, oops.Code("INVALID_STEPS").With("steps", s).Errorf("steps must be a positive integer")
	}
	return n, nil
}

// openRawStore opens the database without applying migrations.
func openRawStore() (*sqlite.Store, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	db, err := sqlite.NewStore(sqlite.DSN(cfg.DatabaseFile))
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "open database").Wrap(err)
	}
	return db, nil
}

func printVersion(cmd *cobra.Command, db *sqlite.Store) error {
	version, dirty, err := db.MigrationVersion()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "read schema version").Wrap(err)
	}

	if dirty {
		cmd.Printf("schema version %d (dirty)\n", version)
		return nil
	}
	cmd.Printf("schema version %d\n", version)
	return nil
}
