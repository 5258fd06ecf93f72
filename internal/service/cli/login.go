package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	sessiondomain "github.com/efraespada/my-verisure/internal/domain/session"
	"github.com/efraespada/my-verisure/internal/logger"
	"github.com/efraespada/my-verisure/internal/service/auth"
)

// LoginOptions configures the login flow.
type LoginOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// User is the account identifier; prompted for when empty.
	User string
	// Password is the account secret; prompted for when empty.
	Password string
}

// RunLogin authenticates against the provider, walking the user through the
// OTP dialogue when the account has a second factor, and stores the session.
func RunLogin(ctx context.Context, opts *LoginOptions) error {
	ctx = logger.WithName(ctx, loggerName)

	app, err := newApp(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.login(ctx, opts.User, opts.Password)
}

// login runs the credential and OTP dialogue and completes the session.
func (a *App) login(ctx context.Context, user, password string) error {
	var err error

	if user == "" {
		if user, err = a.prompt("User: "); err != nil {
			return err
		}
	}

	if password == "" {
		if password, err = a.prompt("Password: "); err != nil {
			return err
		}
	}

	sess, challenge, err := a.auth.Login(ctx, user, password)
	if err != nil {
		return err
	}

	if challenge != nil {
		if sess, err = a.verifyChallenge(ctx, challenge); err != nil {
			return err
		}
	}

	if err = a.sessions.CompleteLogin(ctx, sess); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s.\n", user)

	return nil
}

// verifyChallenge picks a delivery phone, requests a code and verifies it,
// re-prompting while the challenge still accepts retries.
func (a *App) verifyChallenge(ctx context.Context, ch *auth.Challenge) (*sessiondomain.Session, error) {
	phoneID, err := a.pickPhone(ch)
	if err != nil {
		return nil, err
	}

	if err = a.auth.SendOTP(ctx, ch, phoneID); err != nil {
		return nil, err
	}

	fmt.Fprintln(a.out, "A verification code has been sent.")

	for {
		code, err := a.prompt("Code: ")
		if err != nil {
			return nil, err
		}

		sess, err := a.auth.VerifyOTP(ctx, ch, code)

		switch {
		case err == nil:
			return sess, nil
		case errors.Is(err, auth.ErrInvalidOTP):
			fmt.Fprintln(a.out, "Wrong code, try again.")
		default:
			return nil, err
		}
	}
}

// errNoDeliveryPhone is returned when a challenge carries no candidate
// phones to deliver a code to.
var errNoDeliveryPhone = errors.New("no delivery phones available")

// pickPhone selects the OTP delivery phone, asking only when the account has
// more than one candidate.
func (a *App) pickPhone(ch *auth.Challenge) (int, error) {
	if len(ch.Phones) == 0 {
		return 0, errNoDeliveryPhone
	}

	if len(ch.Phones) == 1 {
		fmt.Fprintf(a.out, "Verification code will be sent to %s.\n", ch.Phones[0].Number)

		return ch.Phones[0].ID, nil
	}

	fmt.Fprintln(a.out, "A verification code is required. Available phones:")

	for _, p := range ch.Phones {
		fmt.Fprintf(a.out, "  [%d] %s\n", p.ID, p.Number)
	}

	answer, err := a.prompt("Phone ID: ")
	if err != nil {
		return 0, err
	}

	phoneID, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("invalid phone ID %q", answer)
	}

	return phoneID, nil
}
