// Package alarm contains the core domain types for alarm state resolution.
//
// It defines the zone model (ZoneKind, Snapshot), the pure Resolve function
// collapsing a snapshot into a PanelState, and the Aggregator that layers
// transient arming/disarming feedback over resolved states.
package alarm
