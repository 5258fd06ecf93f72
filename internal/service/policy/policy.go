package policy

import (
	"fmt"

	domain "github.com/efraespada/my-verisure/internal/domain/alarm"
)

// Action is an alarm command a decision layer may pass judgement on.
type Action string

const (
	// ActionArmAway proposes arming full internal protection.
	ActionArmAway Action = "arm_away"
	// ActionArmHome proposes arming the perimeter.
	ActionArmHome Action = "arm_home"
	// ActionArmNight proposes arming the internal night zone.
	ActionArmNight Action = "arm_night"
	// ActionDisarm proposes disarming the panel.
	ActionDisarm Action = "disarm"
)

// Decision is the verdict on a proposed action.
type Decision struct {
	// Execute reports whether the action may run at all.
	Execute bool
	// Confirm reports whether the user must approve before it runs.
	Confirm bool
	// Reason explains the verdict in user-facing terms.
	Reason string
}

// Policy decides whether a proposed action may run against the currently
// resolved panel state. Implementations are pure functions; they never
// issue commands themselves.
type Policy interface {
	Decide(state domain.PanelState, proposed Action) Decision
}

// Mode names for the three operation styles.
const (
	ModeDirect      = "direct"
	ModeConditional = "approve"
	ModeAutonomous  = "auto"
)

// ForMode returns the policy for a mode name, defaulting to DirectExecute.
func ForMode(mode string) Policy {
	switch mode {
	case ModeConditional:
		return ConditionalApprove{}
	case ModeAutonomous:
		return AutonomousLoop{}
	default:
		return DirectExecute{}
	}
}

// DirectExecute runs every proposed action immediately.
type DirectExecute struct{}

// Decide always allows execution.
func (DirectExecute) Decide(_ domain.PanelState, proposed Action) Decision {
	return Decision{
		Execute: true,
		Reason:  fmt.Sprintf("executing %s directly", proposed),
	}
}

// ConditionalApprove allows actions but demands user confirmation for the
// risky ones: disarming, and overwriting a panel that is already armed.
type ConditionalApprove struct{}

// Decide allows execution, flagging confirmation where the action lowers
// or replaces active protection.
func (ConditionalApprove) Decide(state domain.PanelState, proposed Action) Decision {
	if proposed == ActionDisarm {
		return Decision{
			Execute: true,
			Confirm: true,
			Reason:  "disarming removes protection and needs approval",
		}
	}

	if state.Mode != domain.ModeDisarmed {
		return Decision{
			Execute: true,
			Confirm: true,
			Reason:  fmt.Sprintf("panel is %s; replacing it needs approval", state.Mode),
		}
	}

	return Decision{
		Execute: true,
		Reason:  fmt.Sprintf("executing %s", proposed),
	}
}

// AutonomousLoop owns the panel through its own evaluation loop and refuses
// externally proposed commands.
type AutonomousLoop struct{}

// Decide rejects external proposals; the loop schedules its own actions.
func (AutonomousLoop) Decide(domain.PanelState, Action) Decision {
	return Decision{
		Execute: false,
		Reason:  "panel is managed autonomously; manual commands are disabled",
	}
}
