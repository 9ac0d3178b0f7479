package commands

import (
	"os"

	"github.com/spf13/cobra"

	"skill-hire/internal/database/seeder"
)

func newSeedCommand() *cobra.Command {
	opts := seeder.Options{}

	cmd := &cobra.Command{
		Use:   "seed",
		Args:  cobra.NoArgs,
		Short: "Seed the skill catalogue and, optionally, an admin and demo workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if opts.AdminEmail == "" {
				opts.AdminEmail = os.Getenv("ADMIN_EMAIL")
			}
			if opts.AdminPassword == "" {
				opts.AdminPassword = os.Getenv("ADMIN_PASSWORD")
			}

			db, err := connect(cmd.Context(), e.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := seeder.Runner{Seeders: seeder.Defaults(opts), Logger: e.log}
			return runner.Run(cmd.Context(), db)
		},
	}

	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "", "admin login to create (defaults to $ADMIN_EMAIL)")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "", "admin password (defaults to $ADMIN_PASSWORD)")
	cmd.Flags().BoolVar(&opts.Demo, "demo", false, "also insert demo workers")
	return cmd
}
