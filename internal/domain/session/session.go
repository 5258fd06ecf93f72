package session

import "time"

// TokenFreshness is how long an auth token can be assumed alive without a
// probe. The remote API invalidates hash tokens after roughly six minutes
// of inactivity.
const TokenFreshness = 6 * time.Minute

// Session represents an authenticated My Verisure session.
// Exactly one live Session exists per process; it is owned and mutated
// exclusively by the session manager.
type Session struct {
	// User is the account identity (DNI/NIE) used to log in.
	User string `json:"user"`
	// Password is the account secret. Stored as-is; at-rest encryption
	// is deliberately out of scope for now.
	Password string `json:"password"`
	// Hash is the short-lived auth token returned by the API.
	Hash string `json:"hash,omitempty"`
	// RefreshToken is the long-lived token paired with Hash.
	RefreshToken string `json:"refresh_token,omitempty"`
	// InstallationID is the currently selected installation, if any.
	InstallationID string `json:"installation_id,omitempty"`
	// Timestamp is when the session was adopted or last refreshed.
	Timestamp time.Time `json:"timestamp"`
}

// Clone returns a copy of the session to avoid leaking internal references.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// Fresh reports whether the auth token is young enough to possibly still be
// accepted by the API. A fresh session must still be probed before adoption;
// a stale one can skip the probe and go straight to relogin.
func (s *Session) Fresh(now time.Time) bool {
	if s == nil || s.Hash == "" || s.Timestamp.IsZero() {
		return false
	}

	return now.Sub(s.Timestamp) <= TokenFreshness
}
