package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/app"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/internal/peertutor/service"
)

// NewPromoteCmd creates the promote subcommand. It is the only way to make
// the first admin, since the site itself requires an admin to change roles.
func NewPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "promote <email> <role>",
		Short:   "Set the role of an account",
		Example: "  peertutor promote jdoe@menloschool.org admin",
		Args:    cobra.ExactArgs(2),
		RunE:    runPromote,
	}
}

func runPromote(cmd *cobra.Command, args []string) error {
	role, err := domain.ParseRole(args[1])
	if err != nil {
		return oops.Code("INVALID_ROLE").Wrap(err)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	db, err := app.OpenStore(cfg.DatabaseFile)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "open database").Wrap(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	users := &service.UserService{Store: db}
	user, err := users.Promote(ctx, args[0], role)
	if err != nil {
		return err
	}

	cmd.Printf("%s is now %s\n", user.Email, user.Role)
	return nil
}
