// Package session implements persistence for the authenticated session.
//
// The FileRepository stores and loads the session as JSON under a per-user
// private directory and exposes a Repository interface that the session
// manager depends on. Load fails softly: missing, unreadable and corrupt
// files are all reported as ErrNotFound.
package session
