package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSessionClone verifies that Clone returns a copy and handles nil safely.
func TestSessionClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Session)(nil).Clone())

	s := &Session{
		User:           "12345678A",
		Password:       "secret",
		Hash:           "token",
		InstallationID: "0001",
		Timestamp:      time.Now(),
	}

	c := s.Clone()

	require.Equal(t, s, c)
	require.NotSame(t, s, c)
}

// TestSessionFresh verifies the token freshness window.
func TestSessionFresh(t *testing.T) {
	t.Parallel()

	now := time.Now()

	// No hash, never fresh.
	s := &Session{User: "u", Timestamp: now}
	require.False(t, s.Fresh(now))

	// Young token.
	s = &Session{User: "u", Hash: "h", Timestamp: now.Add(-time.Minute)}
	require.True(t, s.Fresh(now))

	// Old token.
	s = &Session{User: "u", Hash: "h", Timestamp: now.Add(-10 * time.Minute)}
	require.False(t, s.Fresh(now))

	// Nil receiver.
	require.False(t, (*Session)(nil).Fresh(now))
}
