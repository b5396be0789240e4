package cmd

import (
	"fmt"

	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/utils"

	"github.com/spf13/cobra"
)

var adminFlags usecase.AdminAccount

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account if it does not exist",
	Long: `Create the admin account if it does not exist.

Credentials come from the flags, falling back to ADMIN_USERNAME,
ADMIN_EMAIL and ADMIN_PASSWORD.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		admin := adminAccount(rt.config)
		if admin.Username == "" || admin.Password == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Admin credentials not set, nothing to do.")
			return nil
		}

		setup := usecase.NewSetupService(rt.repo, rt.logger, nil)
		created, err := setup.EnsureAdmin(cmd.Context(), admin)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %q created.\n", admin.Username)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %q already exists.\n", admin.Username)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{createAdminCmd, seedCmd} {
		c.Flags().StringVar(&adminFlags.Username, "username", "", "admin username (default $ADMIN_USERNAME)")
		c.Flags().StringVar(&adminFlags.Email, "email", "", "admin email (default $ADMIN_EMAIL)")
		c.Flags().StringVar(&adminFlags.Password, "password", "", "admin password (default $ADMIN_PASSWORD)")
	}
}

// adminAccount merges the flags over the configured defaults.
func adminAccount(config *utils.Config) usecase.AdminAccount {
	admin := usecase.AdminAccount{
		Username: config.Admin.Username,
		Email:    config.Email.AdminEmail,
		Password: config.Admin.Password,
	}
	if adminFlags.Username != "" {
		admin.Username = adminFlags.Username
	}
	if adminFlags.Email != "" {
		admin.Email = adminFlags.Email
	}
	if adminFlags.Password != "" {
		admin.Password = adminFlags.Password
	}
	return admin
}
