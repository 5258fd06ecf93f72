package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	alarmdomain "github.com/efraespada/my-verisure/internal/domain/alarm"
	sessiondomain "github.com/efraespada/my-verisure/internal/domain/session"
	"github.com/efraespada/my-verisure/internal/provider"
)

// listingClient is a provider.Client stub serving a fixed installation list.
type listingClient struct {
	installations []provider.Installation
}

func (c *listingClient) Login(context.Context, string, string) (*provider.AuthResult, error) {
	return nil, nil
}

func (c *listingClient) SendOTP(context.Context, int, string) error { return nil }

func (c *listingClient) VerifyOTP(context.Context, string, string) (*provider.AuthResult, error) {
	return nil, nil
}

func (c *listingClient) SetToken(string) {}

func (c *listingClient) Installations(context.Context) ([]provider.Installation, error) {
	return c.installations, nil
}

func (c *listingClient) AlarmStatus(context.Context, string) (alarmdomain.Snapshot, error) {
	return alarmdomain.Snapshot{}, nil
}

func (c *listingClient) Arm(context.Context, string, string) error { return nil }

func (c *listingClient) Disarm(context.Context, string, string) error { return nil }

func (c *listingClient) Close() error { return nil }

// TestInstallations_ListsWithActiveMarker marks the selected installation.
func TestInstallations_ListsWithActiveMarker(t *testing.T) {
	t.Parallel()

	mgr := &recordingSessions{session: &sessiondomain.Session{User: "user", InstallationID: "0002"}}
	app, out := newTestApp("", nil, mgr, nil)
	app.client = &listingClient{installations: []provider.Installation{
		{ID: "0001", Alias: "Casa"},
		{ID: "0002", Alias: "Oficina"},
	}}

	require.NoError(t, app.installations(context.Background(), ""))
	require.Contains(t, out.String(), "  0001  Casa")
	require.Contains(t, out.String(), "* 0002  Oficina")
}

// TestInstallations_SelectsKnownID records the chosen installation.
func TestInstallations_SelectsKnownID(t *testing.T) {
	t.Parallel()

	mgr := &recordingSessions{session: &sessiondomain.Session{User: "user"}}
	app, out := newTestApp("", nil, mgr, nil)
	app.client = &listingClient{installations: []provider.Installation{{ID: "0001", Alias: "Casa"}}}

	require.NoError(t, app.installations(context.Background(), "0001"))
	require.Equal(t, "0001", mgr.selected)
	require.Contains(t, out.String(), "Installation 0001 selected")
}

// TestInstallations_RejectsForeignID refuses installations the account does
// not own.
func TestInstallations_RejectsForeignID(t *testing.T) {
	t.Parallel()

	mgr := &recordingSessions{session: &sessiondomain.Session{User: "user"}}
	app, _ := newTestApp("", nil, mgr, nil)
	app.client = &listingClient{installations: []provider.Installation{{ID: "0001", Alias: "Casa"}}}

	err := app.installations(context.Background(), "9999")
	require.ErrorContains(t, err, "does not belong")
	require.Empty(t, mgr.selected)
}
