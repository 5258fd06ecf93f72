// Package alarm orchestrates the alarm command surface: it ensures a valid
// session, talks to the remote provider and resolves raw zone data through
// the aggregator, asserting transient arming/disarming states around
// in-flight commands.
package alarm
