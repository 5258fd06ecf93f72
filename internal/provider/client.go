package provider

import (
	"context"
	"errors"

	"github.com/efraespada/my-verisure/internal/domain/alarm"
)

// Phone is a candidate delivery target for an OTP code.
type Phone struct {
	// ID is the record identifier used to request delivery.
	ID int
	// Number is the masked phone number shown to the user.
	Number string
}

// OTPData is the provider payload of a second-factor challenge: the
// candidate phones and the hash pairing the eventual code with this login.
type OTPData struct {
	// Phones are the candidate delivery targets.
	Phones []Phone
	// Hash pairs the OTP code with the login attempt that triggered it.
	Hash string
}

// AuthResult is a successful authentication outcome.
type AuthResult struct {
	// Hash is the short-lived auth token.
	Hash string
	// RefreshToken is the long-lived token paired with Hash.
	RefreshToken string
}

// Installation is one protected premises reachable with the session.
type Installation struct {
	// ID is the installation number (numinst).
	ID string
	// Alias is the user-visible installation name.
	Alias string
}

// Arm request verbs understood by the panel.
const (
	// RequestArmAway arms full internal protection.
	RequestArmAway = "ARM1"
	// RequestArmHome arms the perimeter.
	RequestArmHome = "PERI1"
	// RequestArmNight arms the internal night zone.
	RequestArmNight = "ARMNIGHT1"
	// RequestDisarm disarms the panel.
	RequestDisarm = "DARM1"
)

var (
	// ErrInvalidCredentials is returned when the API rejects the identity
	// or secret.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOTP is returned when the API rejects the submitted code.
	ErrInvalidOTP = errors.New("invalid OTP code")
	// ErrUnauthorized is returned when the auth token is missing or no
	// longer accepted.
	ErrUnauthorized = errors.New("unauthorized")
)

// OTPRequiredError reports that credentials were accepted but a second
// factor must be verified before a token is issued.
type OTPRequiredError struct {
	// Data carries the challenge payload.
	Data OTPData
}

// Error implements the error interface.
func (e *OTPRequiredError) Error() string {
	return "OTP verification required"
}

// Client is the remote-provider surface the services depend on. All calls
// are fallible network round trips.
type Client interface {
	// Login exchanges credentials for a token. It returns an
	// *OTPRequiredError when a second factor is needed and
	// ErrInvalidCredentials when the credentials are rejected.
	Login(ctx context.Context, user, password string) (*AuthResult, error)
	// SendOTP asks the provider to deliver a code to the chosen phone.
	SendOTP(ctx context.Context, recordID int, otpHash string) error
	// VerifyOTP exchanges a delivered code for a token. It returns
	// ErrInvalidOTP when the code is rejected.
	VerifyOTP(ctx context.Context, otpHash, code string) (*AuthResult, error)
	// SetToken binds (or, with an empty value, releases) the auth token
	// used for authenticated calls.
	SetToken(hash string)
	// Installations lists the premises reachable with the bound token.
	Installations(ctx context.Context) ([]Installation, error)
	// AlarmStatus fetches one complete zone snapshot for the installation.
	AlarmStatus(ctx context.Context, installationID string) (alarm.Snapshot, error)
	// Arm issues one of the Request* arm verbs against the installation.
	Arm(ctx context.Context, installationID, request string) error
	// Disarm disarms the installation using the panel code.
	Disarm(ctx context.Context, installationID, code string) error
	// Close releases the underlying transport.
	Close() error
}
