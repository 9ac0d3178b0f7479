package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"skill-hire/internal/app"
)

func newReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Args:  cobra.NoArgs,
		Short: "Replay job posting steps that failed at request time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			c, err := app.NewContainer(e.cfg, e.log)
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.Reconciler.Run(cmd.Context())
			if err != nil {
				return err
			}
			if report.Skipped {
				e.log.Info("another reconcile pass is running, skipped")
				fmt.Fprintln(cmd.OutOrStdout(), "skipped: another pass is running")
				return nil
			}
			e.log.WithFields(logrus.Fields{
				"scanned":  report.Scanned,
				"resolved": report.Resolved,
				"failed":   report.Failed,
			}).Info("reconcile finished")
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d resolved=%d failed=%d\n", report.Scanned, report.Resolved, report.Failed)
			return nil
		},
	}
}
