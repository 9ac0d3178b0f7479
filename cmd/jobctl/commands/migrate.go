package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"skill-hire/internal/database/migration"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			db, err := connect(cmd.Context(), e.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := (migration.Runner{Logger: e.log}).Run(cmd.Context(), db.SQLDB()); err != nil {
				return err
			}
			e.log.Info("migrations applied")
			return nil
		},
	}

	cmd.AddCommand(newMigrateListCommand())
	return cmd
}

func newMigrateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Args:  cobra.NoArgs,
		Short: "List the embedded migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			migs, err := migration.Runner{}.Load()
			if err != nil {
				return err
			}
			for _, m := range migs {
				fmt.Fprintf(cmd.OutOrStdout(), "V%d\t%s\t%s\n", m.Version, m.Name, m.Checksum[:12])
			}
			return nil
		},
	}
}
