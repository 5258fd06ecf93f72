package alarm

// ZoneKind identifies an independently armable partition of the premises.
type ZoneKind int

const (
	// ZoneInternalDay is the internal perimeter armed during the day.
	ZoneInternalDay ZoneKind = iota
	// ZoneInternalNight is the internal perimeter armed at night.
	ZoneInternalNight
	// ZoneInternalTotal is the full internal protection.
	ZoneInternalTotal
	// ZoneExternal is the external perimeter.
	ZoneExternal
)

// Label returns the fixed display label of the zone, as reported by the
// detail sensor.
func (k ZoneKind) Label() string {
	switch k {
	case ZoneInternalDay:
		return "Interna Día"
	case ZoneInternalNight:
		return "Interna Noche"
	case ZoneInternalTotal:
		return "Interna Total"
	case ZoneExternal:
		return "Externa"
	default:
		return "Desconocida"
	}
}

// Snapshot is the complete per-zone view of the alarm produced by one state
// fetch. A fetch yields a whole snapshot or fails entirely; partial zone
// updates do not exist.
type Snapshot struct {
	// InternalDay reports whether the internal day zone is armed.
	InternalDay bool
	// InternalNight reports whether the internal night zone is armed.
	InternalNight bool
	// InternalTotal reports whether full internal protection is armed.
	InternalTotal bool
	// External reports whether the external perimeter is armed.
	External bool
}

// Active returns the active zones in reporting order
// (total, day, night, external).
func (s Snapshot) Active() []ZoneKind {
	var kinds []ZoneKind

	if s.InternalTotal {
		kinds = append(kinds, ZoneInternalTotal)
	}

	if s.InternalDay {
		kinds = append(kinds, ZoneInternalDay)
	}

	if s.InternalNight {
		kinds = append(kinds, ZoneInternalNight)
	}

	if s.External {
		kinds = append(kinds, ZoneExternal)
	}

	return kinds
}
