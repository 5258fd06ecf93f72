// Package session orchestrates the session lifecycle: restoring a stored
// session at startup, probing its validity, reauthenticating transparently,
// completing interactive logins and logging out.
//
// The Manager is the only component allowed to mutate or persist the live
// session; all operations on it serialize through one lock, while the
// in-memory state lock is never held across I/O.
package session
