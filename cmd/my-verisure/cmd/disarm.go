package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/efraespada/my-verisure/internal/service/cli"
	"github.com/efraespada/my-verisure/internal/service/policy"
)

var (
	// disarmCode is the panel code, prompted for when omitted.
	disarmCode string
	// disarmPolicyMode selects the decision policy gating the command.
	disarmPolicyMode string

	// disarmCmd disarms the panel.
	disarmCmd = &cobra.Command{
		Use:   "disarm",
		Short: "Disarm the alarm.",
		Long: `Disarms the alarm panel and waits for it to settle.

The panel code is read from the terminal when not passed as a flag. Under
the approve policy, disarming always asks for confirmation first.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return cli.RunDisarm(ctx, &cli.DisarmOptions{
				ConfigPath: configPath,
				Code:       disarmCode,
				PolicyMode: disarmPolicyMode,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	disarmCmd.Flags().StringVar(&disarmCode, "code", "", "panel code (prompted when omitted)")
	disarmCmd.Flags().StringVar(&disarmPolicyMode, "policy", policy.ModeDirect,
		"decision policy gating the command (direct, approve, auto)")

	rootCmd.AddCommand(disarmCmd)
}
