package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simkemas/simkemas-backend/internal/users"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/security"
)

var seedAdminOpts struct {
	name     string
	username string
	email    string
	password string
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an admin account",
	Long: `Create an admin user. When --password is omitted a temporary password is
generated and printed once.`,
	RunE: seedAdmin,
}

func init() {
	f := seedAdminCmd.Flags()
	f.StringVar(&seedAdminOpts.name, "name", "Administrator", "display name")
	f.StringVar(&seedAdminOpts.username, "username", "admin", "login username")
	f.StringVar(&seedAdminOpts.email, "email", "", "email address")
	f.StringVar(&seedAdminOpts.password, "password", "", "initial password (generated when empty)")
	_ = seedAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(seedAdminCmd)
}

func seedAdmin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	svc, err := users.NewService(users.NewRepository(e.db.DB()), e.cfg.Password)
	if err != nil {
		return err
	}

	password := seedAdminOpts.password
	generated := password == ""
	if generated {
		if password, err = security.GenerateTempPassword(16); err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
	}

	user, err := svc.Create(ctx, users.CreateInput{
		Name:     seedAdminOpts.name,
		Username: seedAdminOpts.username,
		Email:    seedAdminOpts.email,
		Password: password,
		Role:     enums.RoleAdmin,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.ID)
	if generated {
		fmt.Fprintf(cmd.OutOrStdout(), "temporary password: %s\n", password)
	}
	return nil
}
