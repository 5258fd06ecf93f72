package alarm

import (
	"errors"
	"sync"
)

// Transition is a transient arming or disarming period between command
// issuance and confirmed settled state.
type Transition Mode

const (
	// TransitionArming marks an arm command in flight.
	TransitionArming = Transition(ModeArming)
	// TransitionDisarming marks a disarm command in flight.
	TransitionDisarming = Transition(ModeDisarming)
)

// ErrTransitionInFlight is returned when a transition is started while
// another one has not settled yet.
var ErrTransitionInFlight = errors.New("transition already in flight")

// errUnknownTransition is returned for transition kinds outside the enum.
var errUnknownTransition = errors.New("unknown transition kind")

// Aggregator folds zone snapshots into panel states and layers transient
// arming/disarming feedback over them. Callers assert a transition the
// moment they issue a command, before its outcome is known, so the panel
// gives immediate feedback even though the provider round trip takes
// seconds. While a transition is in flight the resolved mode is the
// transient one regardless of zone data; the per-zone detail still reflects
// the snapshot.
type Aggregator struct {
	// mu protects the transition flag against concurrent command handlers.
	mu sync.Mutex
	// transition is the in-flight transition, or "" when settled.
	transition Transition
}

// NewAggregator returns an aggregator with no transition in flight.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// BeginTransition marks an arm or disarm command as in flight. Overlapping
// transitions serialize: the second caller gets ErrTransitionInFlight
// instead of silently overwriting the first.
func (a *Aggregator) BeginTransition(kind Transition) error {
	if kind != TransitionArming && kind != TransitionDisarming {
		return errUnknownTransition
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.transition != "" {
		return ErrTransitionInFlight
	}

	a.transition = kind

	return nil
}

// EndTransition clears the in-flight transition once the command outcome is
// known, success or failure. Idempotent.
func (a *Aggregator) EndTransition() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.transition = ""
}

// InTransition reports whether a transition is currently in flight.
func (a *Aggregator) InTransition() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.transition != ""
}

// Resolve returns the panel state for the snapshot, overriding the mode
// with the transient one while a transition is in flight.
func (a *Aggregator) Resolve(snap Snapshot) PanelState {
	state := Resolve(snap)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.transition != "" {
		state.Mode = Mode(a.transition)
	}

	return state
}
