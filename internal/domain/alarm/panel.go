package alarm

import "fmt"

// Mode is the single collapsed alarm-system mode exposed to generic
// alarm-panel consumers.
type Mode string

const (
	// ModeDisarmed means no zone is armed.
	ModeDisarmed Mode = "disarmed"
	// ModeArmedHome means the day or external perimeter is armed.
	ModeArmedHome Mode = "armed_home"
	// ModeArmedNight means the internal night zone is armed.
	ModeArmedNight Mode = "armed_night"
	// ModeArmedAway means full internal protection is armed.
	ModeArmedAway Mode = "armed_away"
	// ModeArming is the transient state while an arm command is in flight.
	ModeArming Mode = "arming"
	// ModeDisarming is the transient state while a disarm command is in flight.
	ModeDisarming Mode = "disarming"
)

// PanelState is the resolved view of one zone snapshot: the collapsed mode
// for generic panel consumers plus the full per-zone detail for automations
// that care about exactly which zones are active.
type PanelState struct {
	// Mode is the collapsed panel mode.
	Mode Mode
	// ActiveCount is the number of active zones.
	ActiveCount int
	// ActiveLabels lists the labels of the active zones in reporting order.
	ActiveLabels []string
	// Multiple is set when two or more zones are active at once.
	Multiple bool
}

// Summary renders the human-readable multi-alarm summary. It reports every
// active zone independently of the mode collapse.
func (p PanelState) Summary() string {
	switch {
	case p.ActiveCount == 0:
		return "Disarmed"
	case p.ActiveCount == 1:
		return p.ActiveLabels[0]
	default:
		return fmt.Sprintf("Multiple (%d)", p.ActiveCount)
	}
}

// Resolve collapses a zone snapshot into a panel state. It is a pure
// function, total over every snapshot.
//
// Mode priority is strictly nested by zone kind:
// internal-total > internal-night > internal-day/external > disarmed.
func Resolve(snap Snapshot) PanelState {
	active := snap.Active()

	labels := make([]string, 0, len(active))
	for _, kind := range active {
		labels = append(labels, kind.Label())
	}

	var mode Mode

	switch {
	case snap.InternalTotal:
		mode = ModeArmedAway
	case snap.InternalNight:
		mode = ModeArmedNight
	case snap.InternalDay || snap.External:
		mode = ModeArmedHome
	default:
		mode = ModeDisarmed
	}

	return PanelState{
		Mode:         mode,
		ActiveCount:  len(active),
		ActiveLabels: labels,
		Multiple:     len(active) >= 2,
	}
}
