package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
	"github.com/ansi-niger/decree-portal/internal/core/service"
)

var seedOpts struct {
	email     string
	password  string
	firstName string
	lastName  string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial super administrator",
	Long: `Creates a SUPER_ADMIN account when none exists yet. The password may be
given with --password or SEED_ADMIN_PASSWORD.

Example:
  portal seed --email admin@ansi.ne --first-name Awa --last-name Diallo`,
	RunE: runSeed,
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedOpts.email, "email", os.Getenv("SEED_ADMIN_EMAIL"), "Administrator e-mail")
	f.StringVar(&seedOpts.password, "password", "", "Administrator password (default $SEED_ADMIN_PASSWORD)")
	f.StringVar(&seedOpts.firstName, "first-name", "Super", "Administrator first name")
	f.StringVar(&seedOpts.lastName, "last-name", "Admin", "Administrator last name")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	password := seedOpts.password
	if password == "" {
		password = os.Getenv("SEED_ADMIN_PASSWORD")
	}
	if seedOpts.email == "" || password == "" {
		return errors.New("an e-mail and a password are required")
	}

	repos, _, closeMongo, err := openRepositories(ctx)
	if err != nil {
		return err
	}
	defer closeMongo()

	existing, err := repos.Users.CountByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if existing > 0 {
		log.Info().Int64("count", existing).Msg("super administrator already present, nothing to do")
		return nil
	}

	auth := service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.JWTTTL, cfg.Auth.EmailDomain)
	user, err := auth.CreateUser(ctx, ports.CreateUserInput{
		Email:     seedOpts.email,
		LastName:  seedOpts.lastName,
		FirstName: seedOpts.firstName,
		Password:  password,
		Role:      domain.RoleSuperAdmin,
	})
	if err != nil {
		return fmt.Errorf("create super administrator: %w", err)
	}

	log.Info().Str("email", user.Email).Str("id", user.ID).Msg("super administrator created")
	return nil
}
