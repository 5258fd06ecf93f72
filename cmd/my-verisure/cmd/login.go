package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/efraespada/my-verisure/internal/service/cli"
)

var (
	// loginUser is the account identifier, prompted for when omitted.
	loginUser string
	// loginPassword is the account secret, prompted for when omitted.
	loginPassword string

	// loginCmd authenticates and stores a session.
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store a session.",
		Long: `Authenticates against the My Verisure API and stores the session locally.

When the account is protected with a second factor, lists the candidate
phones, sends a verification code to the chosen one and verifies it. Wrong
codes can be retried until the challenge expires. The stored session lets
later commands run without logging in again.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return cli.RunLogin(ctx, &cli.LoginOptions{
				ConfigPath: configPath,
				User:       loginUser,
				Password:   loginPassword,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "account identifier (DNI/NIE)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
}
