package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/efraespada/my-verisure/internal/service/cli"
)

// logoutCmd drops the live session and removes the stored one.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session.",
	Long: `Drops the live session and removes the stored session file.

Idempotent: logging out with no session stored is not an error.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return cli.RunLogout(ctx, &cli.LogoutOptions{ConfigPath: configPath})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(logoutCmd)
}
