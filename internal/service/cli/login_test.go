package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	alarmdomain "github.com/efraespada/my-verisure/internal/domain/alarm"
	sessiondomain "github.com/efraespada/my-verisure/internal/domain/session"
	"github.com/efraespada/my-verisure/internal/provider"
	"github.com/efraespada/my-verisure/internal/service/auth"
)

// fakeAuth scripts the login and OTP protocol.
type fakeAuth struct {
	// challenge, when non-nil, is returned by Login.
	challenge *auth.Challenge
	// loginErr scripts Login failures.
	loginErr error
	// sentPhoneID records the SendOTP target.
	sentPhoneID int
	// wrongCodes are rejected as invalid before a code is accepted.
	wrongCodes int
	// session is returned once verification succeeds.
	session *sessiondomain.Session
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*sessiondomain.Session, *auth.Challenge, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}

	if f.challenge != nil {
		return nil, f.challenge, nil
	}

	return f.session, nil, nil
}

func (f *fakeAuth) SendOTP(_ context.Context, _ *auth.Challenge, phoneID int) error {
	f.sentPhoneID = phoneID

	return nil
}

func (f *fakeAuth) VerifyOTP(_ context.Context, _ *auth.Challenge, _ string) (*sessiondomain.Session, error) {
	if f.wrongCodes > 0 {
		f.wrongCodes--

		return nil, auth.ErrInvalidOTP
	}

	return f.session, nil
}

// recordingSessions records manager calls.
type recordingSessions struct {
	// completed is the session passed to CompleteLogin.
	completed *sessiondomain.Session
	// selected is the installation passed to SelectInstallation.
	selected string
	// loggedOut reports whether Logout ran.
	loggedOut bool
	// session is returned by EnsureSession and reflected by Status.
	session *sessiondomain.Session
	// err scripts EnsureSession failures.
	err error
}

func (r *recordingSessions) EnsureSession(context.Context) (*sessiondomain.Session, error) {
	if r.err != nil {
		return nil, r.err
	}

	return r.session, nil
}

func (r *recordingSessions) Status() (bool, string, string) {
	if r.session == nil {
		return false, "", ""
	}

	return true, r.session.User, r.session.InstallationID
}

func (r *recordingSessions) CompleteLogin(_ context.Context, s *sessiondomain.Session) error {
	r.completed = s

	return nil
}

func (r *recordingSessions) SelectInstallation(_ context.Context, id string) error {
	r.selected = id

	return nil
}

func (r *recordingSessions) Logout(context.Context) error {
	r.loggedOut = true

	return nil
}

// scriptedPanel returns fixed panel states.
type scriptedPanel struct {
	// state is returned by every operation.
	state alarmdomain.PanelState
	// err scripts failures.
	err error
	// disarmCode records the code passed to Disarm.
	disarmCode string
}

func (p *scriptedPanel) Status(context.Context) (alarmdomain.PanelState, error) {
	return p.state, p.err
}

func (p *scriptedPanel) ArmAway(context.Context) (alarmdomain.PanelState, error) {
	return p.state, p.err
}

func (p *scriptedPanel) ArmHome(context.Context) (alarmdomain.PanelState, error) {
	return p.state, p.err
}

func (p *scriptedPanel) ArmNight(context.Context) (alarmdomain.PanelState, error) {
	return p.state, p.err
}

func (p *scriptedPanel) Disarm(_ context.Context, code string) (alarmdomain.PanelState, error) {
	p.disarmCode = code

	return p.state, p.err
}

// newTestApp builds an App over fakes with scripted terminal input.
func newTestApp(input string, authFlow authenticator, mgr sessions, p panel) (*App, *bytes.Buffer) {
	out := new(bytes.Buffer)

	return &App{
		auth:     authFlow,
		sessions: mgr,
		panel:    p,
		in:       bufio.NewReader(strings.NewReader(input)),
		out:      out,
	}, out
}

// TestLogin_WithoutSecondFactor completes the session straight from Login.
func TestLogin_WithoutSecondFactor(t *testing.T) {
	t.Parallel()

	want := &sessiondomain.Session{User: "user", Hash: "h1"}
	mgr := new(recordingSessions)
	app, out := newTestApp("", &fakeAuth{session: want}, mgr, nil)

	err := app.login(context.Background(), "user", "secret")
	require.NoError(t, err)
	require.Equal(t, want, mgr.completed)
	require.Contains(t, out.String(), "Logged in as user")
}

// TestLogin_PromptsForCredentials reads missing user and password from the
// terminal.
func TestLogin_PromptsForCredentials(t *testing.T) {
	t.Parallel()

	mgr := new(recordingSessions)
	app, out := newTestApp("user\nsecret\n", &fakeAuth{session: &sessiondomain.Session{User: "user"}}, mgr, nil)

	err := app.login(context.Background(), "", "")
	require.NoError(t, err)
	require.NotNil(t, mgr.completed)
	require.Contains(t, out.String(), "User: ")
	require.Contains(t, out.String(), "Password: ")
}

// TestLogin_OTPDialogue walks the full second-factor dialogue: phone choice,
// one rejected code, then success.
func TestLogin_OTPDialogue(t *testing.T) {
	t.Parallel()

	flow := &fakeAuth{
		challenge: &auth.Challenge{Phones: []provider.Phone{
			{ID: 0, Number: "**********34"},
			{ID: 1, Number: "**********79"},
		}},
		wrongCodes: 1,
		session:    &sessiondomain.Session{User: "user", Hash: "h2"},
	}
	mgr := new(recordingSessions)
	app, out := newTestApp("1\n111111\n222222\n", flow, mgr, nil)

	err := app.login(context.Background(), "user", "secret")
	require.NoError(t, err)
	require.Equal(t, 1, flow.sentPhoneID)
	require.Contains(t, out.String(), "**********79")
	require.Contains(t, out.String(), "Wrong code")
	require.Equal(t, "h2", mgr.completed.Hash)
}

// TestLogin_SinglePhoneAutoSelected skips the phone prompt when there is
// only one candidate.
func TestLogin_SinglePhoneAutoSelected(t *testing.T) {
	t.Parallel()

	flow := &fakeAuth{
		challenge: &auth.Challenge{Phones: []provider.Phone{{ID: 7, Number: "**********34"}}},
		session:   &sessiondomain.Session{User: "user"},
	}
	app, _ := newTestApp("123456\n", flow, new(recordingSessions), nil)

	err := app.login(context.Background(), "user", "secret")
	require.NoError(t, err)
	require.Equal(t, 7, flow.sentPhoneID)
}

// TestLogin_NoDeliveryPhones fails immediately on a challenge without
// candidate phones, before any prompt or send attempt.
func TestLogin_NoDeliveryPhones(t *testing.T) {
	t.Parallel()

	flow := &fakeAuth{challenge: new(auth.Challenge), sentPhoneID: -1}
	app, _ := newTestApp("", flow, new(recordingSessions), nil)

	err := app.login(context.Background(), "user", "secret")
	require.ErrorIs(t, err, errNoDeliveryPhone)
	require.Equal(t, -1, flow.sentPhoneID)
}

// TestLogin_PropagatesAuthErrors surfaces credential rejections untouched.
func TestLogin_PropagatesAuthErrors(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp("", &fakeAuth{loginErr: auth.ErrInvalidCredentials}, new(recordingSessions), nil)

	err := app.login(context.Background(), "user", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
