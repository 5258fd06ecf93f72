package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/efraespada/my-verisure/internal/domain/session"
	"github.com/efraespada/my-verisure/internal/logger"
	"github.com/efraespada/my-verisure/internal/provider"
)

const (
	// OTPValidity is the issued-code window. A challenge older than this
	// can no longer be verified.
	OTPValidity = 5 * time.Minute

	// MaxOTPAttempts bounds failed verifications per challenge. The bound
	// counting in, the state machine goes terminal after the last failure.
	MaxOTPAttempts = 3
)

var (
	// ErrInvalidCredentials is returned when the identity or secret is
	// rejected. Fatal for the attempt; the user must retry with new input.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOTP is returned when a submitted code is wrong but the
	// challenge still accepts retries.
	ErrInvalidOTP = errors.New("invalid OTP code")
	// ErrOTPExpired is returned when the challenge window has elapsed or
	// the retry bound is exhausted. Terminal for the challenge.
	ErrOTPExpired = errors.New("OTP challenge expired")
	// errNoPhone is returned when the selected phone is not a candidate.
	errNoPhone = errors.New("phone is not a challenge candidate")
)

// Challenge is the transient second-factor state between "credentials
// accepted, 2FA required" and "verified or abandoned". It lives only in
// memory and is never persisted; an abandoned challenge simply expires.
type Challenge struct {
	// Phones are the candidate delivery targets.
	Phones []provider.Phone

	// user and password are carried so a verified challenge can mint a
	// complete session.
	user     string
	password string
	// otpHash pairs codes with the login attempt that triggered them.
	otpHash string
	// issuedAt starts the validity window.
	issuedAt time.Time
	// attempts counts failed verifications.
	attempts int
}

// Expired reports whether the issued-code window has elapsed.
func (c *Challenge) Expired(now time.Time) bool {
	return now.Sub(c.issuedAt) > OTPValidity
}

// Authenticator drives the login and OTP protocol against the remote
// provider. It holds no state across calls; every challenge lives in the
// caller's hands.
type Authenticator struct {
	// client is the remote provider.
	client provider.Client
	// now is the clock, replaceable in tests.
	now func() time.Time
}

// New creates an authenticator over the provided client.
func New(client provider.Client) *Authenticator {
	return &Authenticator{
		client: client,
		now:    time.Now,
	}
}

// Login attempts credential authentication. Exactly one of the three
// outcomes applies: a ready session (no second factor configured), a
// challenge to verify, or an error.
func (a *Authenticator) Login(ctx context.Context, user, password string) (*domain.Session, *Challenge, error) {
	result, err := a.client.Login(ctx, user, password)

	var otpErr *provider.OTPRequiredError

	switch {
	case err == nil:
		logger.InfoKV(ctx, "Authenticated without second factor", "user", user)

		return a.mintSession(user, password, result), nil, nil
	case errors.As(err, &otpErr):
		logger.InfoKV(ctx, "OTP challenge issued", "user", user, "phones", len(otpErr.Data.Phones))

		return nil, &Challenge{
			Phones:   otpErr.Data.Phones,
			user:     user,
			password: password,
			otpHash:  otpErr.Data.Hash,
			issuedAt: a.now(),
		}, nil
	case errors.Is(err, provider.ErrInvalidCredentials):
		return nil, nil, ErrInvalidCredentials
	default:
		return nil, nil, fmt.Errorf("login: %w", err)
	}
}

// SendOTP asks the provider to deliver a code to one of the challenge's
// candidate phones.
func (a *Authenticator) SendOTP(ctx context.Context, ch *Challenge, phoneID int) error {
	if ch.Expired(a.now()) {
		return ErrOTPExpired
	}

	var found bool

	for _, p := range ch.Phones {
		if p.ID == phoneID {
			found = true

			break
		}
	}

	if !found {
		return errNoPhone
	}

	if err := a.client.SendOTP(ctx, phoneID, ch.otpHash); err != nil {
		return fmt.Errorf("send OTP: %w", err)
	}

	logger.InfoKV(ctx, "OTP code sent", "phone_id", phoneID)

	return nil
}

// VerifyOTP submits a code against the challenge. A wrong code is retryable
// until MaxOTPAttempts is reached; after that, and after the validity
// window, the challenge is terminally expired.
func (a *Authenticator) VerifyOTP(ctx context.Context, ch *Challenge, code string) (*domain.Session, error) {
	if ch.Expired(a.now()) || ch.attempts >= MaxOTPAttempts {
		return nil, ErrOTPExpired
	}

	result, err := a.client.VerifyOTP(ctx, ch.otpHash, code)

	switch {
	case err == nil:
		logger.InfoKV(ctx, "OTP verified", "user", ch.user)

		return a.mintSession(ch.user, ch.password, result), nil
	case errors.Is(err, provider.ErrInvalidOTP):
		ch.attempts++
		if ch.attempts >= MaxOTPAttempts {
			return nil, ErrOTPExpired
		}

		return nil, ErrInvalidOTP
	default:
		return nil, fmt.Errorf("verify OTP: %w", err)
	}
}

// Probe performs a lightweight round-trip to decide whether a stored
// session can be trusted without a full relogin.
func (a *Authenticator) Probe(ctx context.Context, s *domain.Session) bool {
	if s == nil || s.Hash == "" {
		return false
	}

	a.client.SetToken(s.Hash)

	if _, err := a.client.Installations(ctx); err != nil {
		logger.InfoKV(ctx, "Stored session rejected by probe", "user", s.User, "error", err)
		a.client.SetToken("")

		return false
	}

	return true
}

// mintSession builds a live session from an auth result and binds the
// token to the provider client.
func (a *Authenticator) mintSession(user, password string, result *provider.AuthResult) *domain.Session {
	a.client.SetToken(result.Hash)

	return &domain.Session{
		User:         user,
		Password:     password,
		Hash:         result.Hash,
		RefreshToken: result.RefreshToken,
		Timestamp:    a.now(),
	}
}
