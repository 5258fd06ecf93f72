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
	// armPolicyMode selects the decision policy gating the command.
	armPolicyMode string

	// armCmd arms the panel in one of its three modes.
	armCmd = &cobra.Command{
		Use:   "arm {away|home|night}",
		Short: "Arm the alarm.",
		Long: `Arms the alarm in the requested mode and waits for the panel to settle.

Modes:
  away   full internal protection, for an empty home
  home   perimeter protection, for staying inside
  night  internal night zone, for sleeping

While the command is in flight, status reports the transient arming state.
A second command issued during that window is refused.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"away", "home", "night"},
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return cli.RunArm(ctx, &cli.ArmOptions{
				ConfigPath: configPath,
				Mode:       args[0],
				PolicyMode: armPolicyMode,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	armCmd.Flags().StringVar(&armPolicyMode, "policy", policy.ModeDirect,
		"decision policy gating the command (direct, approve, auto)")

	rootCmd.AddCommand(armCmd)
}
