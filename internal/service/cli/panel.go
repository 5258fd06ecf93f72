package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	alarmdomain "github.com/efraespada/my-verisure/internal/domain/alarm"
	"github.com/efraespada/my-verisure/internal/logger"
	"github.com/efraespada/my-verisure/internal/service/policy"
	sessionsvc "github.com/efraespada/my-verisure/internal/service/session"
)

// StatusOptions configures the status flow.
type StatusOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
}

// ArmOptions configures the arm flow.
type ArmOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Mode selects the arm verb: away, home or night.
	Mode string
	// PolicyMode selects the decision policy gating the command.
	PolicyMode string
}

// DisarmOptions configures the disarm flow.
type DisarmOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Code is the disarm code; prompted for when empty.
	Code string
	// PolicyMode selects the decision policy gating the command.
	PolicyMode string
}

// errUnknownArmMode rejects arm verbs outside the supported set.
var errUnknownArmMode = errors.New(`arm mode must be "away", "home" or "night"`)

// RunStatus resolves and prints the current panel state.
func RunStatus(ctx context.Context, opts *StatusOptions) error {
	ctx = logger.WithName(ctx, loggerName)

	app, err := newApp(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.status(ctx)
}

// RunAlarms prints the active-alarms report.
func RunAlarms(ctx context.Context, opts *StatusOptions) error {
	ctx = logger.WithName(ctx, loggerName)

	app, err := newApp(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.alarms(ctx)
}

// RunArm issues one of the three arm commands, gated by the chosen policy.
func RunArm(ctx context.Context, opts *ArmOptions) error {
	ctx = logger.WithName(ctx, loggerName)

	app, err := newApp(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.arm(ctx, opts.Mode, opts.PolicyMode)
}

// RunDisarm disarms the panel, gated by the chosen policy.
func RunDisarm(ctx context.Context, opts *DisarmOptions) error {
	ctx = logger.WithName(ctx, loggerName)

	app, err := newApp(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.disarm(ctx, opts.Code, opts.PolicyMode)
}

// status reports the session first (whether authenticated, as whom, which
// installation) and, when a session exists, the resolved panel state below
// it. An unauthenticated state is part of the report, not a failure.
func (a *App) status(ctx context.Context) error {
	if _, err := a.sessions.EnsureSession(ctx); err != nil {
		if errors.Is(err, sessionsvc.ErrNotAuthenticated) {
			fmt.Fprintln(a.out, "Authenticated: no")
			fmt.Fprintln(a.out, `Run "my-verisure login" first.`)

			return nil
		}

		return err
	}

	_, user, installation := a.sessions.Status()

	fmt.Fprintln(a.out, "Authenticated: yes")
	fmt.Fprintf(a.out, "User: %s\n", user)

	if installation != "" {
		fmt.Fprintf(a.out, "Installation: %s\n", installation)
	}

	state, err := a.panel.Status(ctx)
	if err != nil {
		return a.describeError(err)
	}

	a.printState(state)

	return nil
}

// alarms prints the collapsed summary and one line per active zone.
func (a *App) alarms(ctx context.Context) error {
	state, err := a.panel.Status(ctx)
	if err != nil {
		return a.describeError(err)
	}

	if len(state.ActiveLabels) == 0 {
		fmt.Fprintln(a.out, "No active alarms.")

		return nil
	}

	fmt.Fprintf(a.out, "Active alarms: %s\n", state.Summary())

	for _, label := range state.ActiveLabels {
		fmt.Fprintf(a.out, "  - %s\n", label)
	}

	return nil
}

// arm maps the mode name onto a command and executes it under the policy.
func (a *App) arm(ctx context.Context, mode, policyMode string) error {
	var (
		action  policy.Action
		command func(context.Context) (alarmdomain.PanelState, error)
	)

	switch mode {
	case "away":
		action, command = policy.ActionArmAway, a.panel.ArmAway
	case "home":
		action, command = policy.ActionArmHome, a.panel.ArmHome
	case "night":
		action, command = policy.ActionArmNight, a.panel.ArmNight
	default:
		return errUnknownArmMode
	}

	return a.execute(ctx, action, policyMode, command)
}

// disarm prompts for a missing code and executes the command under the policy.
func (a *App) disarm(ctx context.Context, code, policyMode string) error {
	var err error

	if code == "" {
		if code, err = a.prompt("Disarm code: "); err != nil {
			return err
		}
	}

	return a.execute(ctx, policy.ActionDisarm, policyMode, func(ctx context.Context) (alarmdomain.PanelState, error) {
		return a.panel.Disarm(ctx, code)
	})
}

// execute gates a panel command with the policy decision, asking for
// confirmation when the decision demands it, and prints the settled state.
func (a *App) execute(
	ctx context.Context,
	action policy.Action,
	policyMode string,
	command func(context.Context) (alarmdomain.PanelState, error),
) error {
	state, err := a.panel.Status(ctx)
	if err != nil {
		return a.describeError(err)
	}

	decision := policy.ForMode(policyMode).Decide(state, action)
	if !decision.Execute {
		return errors.New(decision.Reason)
	}

	if decision.Confirm {
		ok, err := a.confirm(decision.Reason + ". Proceed?")
		if err != nil {
			return err
		}

		if !ok {
			fmt.Fprintln(a.out, "Aborted.")

			return nil
		}
	}

	settled, err := command(ctx)
	if err != nil {
		return a.describeError(err)
	}

	a.printState(settled)

	return nil
}

// printState renders the dual report: collapsed summary plus active zones.
func (a *App) printState(state alarmdomain.PanelState) {
	fmt.Fprintf(a.out, "Alarm: %s\n", state.Summary())
	fmt.Fprintf(a.out, "Mode: %s\n", state.Mode)

	if len(state.ActiveLabels) > 0 {
		fmt.Fprintf(a.out, "Active zones: %s\n", strings.Join(state.ActiveLabels, ", "))
	}
}

// describeError attaches a login hint to authentication failures.
func (a *App) describeError(err error) error {
	if errors.Is(err, sessionsvc.ErrNotAuthenticated) {
		fmt.Fprintln(a.out, `Not authenticated. Run "my-verisure login" first.`)
	}

	return err
}
