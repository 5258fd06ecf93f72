package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/efraespada/my-verisure/internal/service/cli"
)

// alarmsCmd prints the active-alarms report.
var alarmsCmd = &cobra.Command{
	Use:   "alarms",
	Short: "List the active alarms.",
	Long: `Prints the collapsed summary and one line per active zone.

A single active zone prints its label; several print "Multiple (N)" with
the zone list below.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return cli.RunAlarms(ctx, &cli.StatusOptions{ConfigPath: configPath})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(alarmsCmd)
}
