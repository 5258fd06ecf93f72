package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/efraespada/my-verisure/internal/config"
	"github.com/efraespada/my-verisure/internal/logger"
	"github.com/efraespada/my-verisure/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel controls the logging verbosity of all subcommands.
	logLevel string

	// rootCmd represents the base command for the My Verisure client.
	rootCmd = &cobra.Command{
		Use:   "my-verisure",
		Short: "Control a Securitas Direct alarm from the command line.",
		Long: `Command line client for Securitas Direct (My Verisure) alarm installations.

Authenticates against the My Verisure API, stores the session locally and
exposes the alarm panel: status, arming in its three modes, and disarming.
Accounts protected with a second factor are walked through the OTP dialogue
during login; later commands reuse the stored session transparently.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			lvl, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(lvl)

			return nil
		},
	}
)

// Execute runs the my-verisure CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup persistent flags shared by all subcommands.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&logLevel, "log-level", "l", "warn", "logging level (debug, info, warn, error)")
}
