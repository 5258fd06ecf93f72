// Package policy holds the decision layer gating alarm commands: direct
// execution, conditional approval, or a fully autonomous loop. Policies are
// pure functions over the resolved panel state; they are consumed by the
// command surface and never talk to the provider themselves.
package policy
