package cli

import (
	"context"
	"fmt"

	"github.com/efraespada/my-verisure/internal/logger"
)

// LogoutOptions configures the logout flow.
type LogoutOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
}

// InstallationsOptions configures the installations flow.
type InstallationsOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Select, when non-empty, records that installation as the active one
	// instead of listing.
	Select string
}

// RunLogout drops the live session and removes the stored one.
func RunLogout(ctx context.Context, opts *LogoutOptions) error {
	ctx = logger.WithName(ctx, loggerName)

	app, err := newApp(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()

	if err = app.sessions.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(app.out, "Logged out.")

	return nil
}

// RunInstallations lists the account's installations or selects one.
func RunInstallations(ctx context.Context, opts *InstallationsOptions) error {
	ctx = logger.WithName(ctx, loggerName)

	app, err := newApp(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.installations(ctx, opts.Select)
}

// installations lists installations, marking the active one, or selects the
// requested installation after checking it belongs to the account.
func (a *App) installations(ctx context.Context, selectID string) error {
	sess, err := a.sessions.EnsureSession(ctx)
	if err != nil {
		return a.describeError(err)
	}

	available, err := a.client.Installations(ctx)
	if err != nil {
		return fmt.Errorf("list installations: %w", err)
	}

	if selectID != "" {
		var found bool

		for _, inst := range available {
			if inst.ID == selectID {
				found = true

				break
			}
		}

		if !found {
			return fmt.Errorf("installation %q does not belong to this account", selectID)
		}

		if err = a.sessions.SelectInstallation(ctx, selectID); err != nil {
			return err
		}

		fmt.Fprintf(a.out, "Installation %s selected.\n", selectID)

		return nil
	}

	for _, inst := range available {
		marker := " "
		if inst.ID == sess.InstallationID {
			marker = "*"
		}

		fmt.Fprintf(a.out, "%s %s  %s\n", marker, inst.ID, inst.Alias)
	}

	return nil
}
