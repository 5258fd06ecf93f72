package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/efraespada/my-verisure/internal/service/cli"
)

// statusCmd reports the session and the current panel state.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session and the current alarm state.",
	Long: `Reports the session first: whether a session exists, for which user and
which installation is active. Being logged out is part of the report, not
an error.

With a session, fetches a fresh zone snapshot and prints the resolved
panel state below: the collapsed summary (a single zone's label, or
"Multiple (N)" when several are active), the panel mode and the list of
active zones.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return cli.RunStatus(ctx, &cli.StatusOptions{ConfigPath: configPath})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(statusCmd)
}
