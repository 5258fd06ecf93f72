package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/efraespada/my-verisure/internal/service/cli"
)

// installationsCmd lists the account's installations.
var installationsCmd = &cobra.Command{
	Use:   "installations",
	Short: "List the account's installations.",
	Long: `Lists the installations of the account, marking the active one.

Use "my-verisure select-installation" to change the active installation.
Accounts with a single installation never need either; it is selected
automatically.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return cli.RunInstallations(ctx, &cli.InstallationsOptions{ConfigPath: configPath})
	},
}

// selectInstallationCmd records the active installation.
var selectInstallationCmd = &cobra.Command{
	Use:   "select-installation <id>",
	Short: "Select the active installation.",
	Long: `Records an installation as the active one for later alarm commands.

The installation must belong to the account; use "my-verisure
installations" to list the candidates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return cli.RunInstallations(ctx, &cli.InstallationsOptions{
			ConfigPath: configPath,
			Select:     args[0],
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(installationsCmd)
	rootCmd.AddCommand(selectInstallationCmd)
}
