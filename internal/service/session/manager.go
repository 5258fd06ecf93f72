package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/efraespada/my-verisure/internal/domain/session"
	"github.com/efraespada/my-verisure/internal/logger"
	"github.com/efraespada/my-verisure/internal/provider"
	repo "github.com/efraespada/my-verisure/internal/repository/session"
	"github.com/efraespada/my-verisure/internal/service/auth"
)

var (
	// ErrNotAuthenticated is returned when no trustworthy session exists.
	// Recoverable: the caller re-runs the login flow.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoActiveSession is returned when an operation requires a live
	// session and none exists. A usage error, not a network condition.
	ErrNoActiveSession = errors.New("no active session")
	// errSessionRequired is returned when CompleteLogin gets nil.
	errSessionRequired = errors.New("session must be provided")
)

// Authenticator is the slice of the auth service the manager depends on.
type Authenticator interface {
	Probe(ctx context.Context, s *domain.Session) bool
	Login(ctx context.Context, user, password string) (*domain.Session, *auth.Challenge, error)
}

// Manager owns the single live session of the process. Every read and
// mutation goes through it; nothing else is allowed to persist or alter
// the session.
//
// Locking discipline: opMu serializes whole operations so a load-probe-adopt
// sequence is one critical section and two racing callers cannot trigger
// duplicate reauthentication. stateMu guards only the in-memory pointer and
// is never held across network or file I/O.
type Manager struct {
	// repo persists the session across process restarts.
	repo repo.Repository
	// auth probes and reauthenticates stored sessions.
	auth Authenticator
	// client is the provider binding released on logout.
	client provider.Client

	// opMu serializes EnsureSession, CompleteLogin, SelectInstallation
	// and Logout against each other.
	opMu sync.Mutex
	// stateMu guards current.
	stateMu sync.RWMutex
	// current is the live session, nil when logged out.
	current *domain.Session

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewManager creates a session manager over the given repository,
// authenticator and provider client.
func NewManager(repository repo.Repository, authenticator Authenticator, client provider.Client) *Manager {
	return &Manager{
		repo:   repository,
		auth:   authenticator,
		client: client,
		now:    time.Now,
	}
}

// EnsureSession returns the live session, restoring one from disk when the
// process has none yet. A stored session is adopted only after it survives
// a probe, or after a transparent non-interactive relogin with the stored
// credentials. It never solicits input; when nothing trustworthy exists the
// caller gets ErrNotAuthenticated and decides how to run the login flow.
func (m *Manager) EnsureSession(ctx context.Context) (*domain.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if cur := m.snapshot(); cur != nil {
		return cur, nil
	}

	stored, err := m.repo.Load(ctx)
	if err != nil {
		// Missing and corrupt files are the same thing here.
		return nil, ErrNotAuthenticated
	}

	// A fresh-looking token still has to survive a probe; a stale one is
	// not worth the round trip. Adoption restamps the session so the next
	// process start finds a young token again.
	if stored.Fresh(m.now()) && m.auth.Probe(ctx, stored) {
		stored.Timestamp = m.now()

		if err = m.persist(ctx, stored); err != nil {
			return nil, err
		}

		logger.InfoKV(ctx, "Stored session adopted", "user", stored.User)
		m.adopt(stored)

		return stored.Clone(), nil
	}

	// Transparent reauthentication with the stored credentials. A second
	// factor cannot be solicited here, so an OTP challenge means the user
	// has to log in again.
	relogged, challenge, err := m.auth.Login(ctx, stored.User, stored.Password)
	if err != nil || challenge != nil {
		logger.InfoKV(ctx, "Transparent relogin unavailable", "user", stored.User, "otp_required", challenge != nil)

		return nil, ErrNotAuthenticated
	}

	relogged.InstallationID = stored.InstallationID

	if err = m.persist(ctx, relogged); err != nil {
		return nil, err
	}

	m.adopt(relogged)
	logger.InfoKV(ctx, "Session reauthenticated", "user", relogged.User)

	return relogged.Clone(), nil
}

// CompleteLogin adopts a session produced by the login flow and persists it
// with the adoption timestamp. Sequenced through the same lock as
// EnsureSession, so adoption happens-before any later EnsureSession
// observing it.
func (m *Manager) CompleteLogin(ctx context.Context, s *domain.Session) error {
	if s == nil {
		return errSessionRequired
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	adopted := s.Clone()
	adopted.Timestamp = m.now()

	if err := m.persist(ctx, adopted); err != nil {
		return err
	}

	m.adopt(adopted)
	logger.InfoKV(ctx, "Login completed", "user", adopted.User)

	return nil
}

// SelectInstallation records the chosen installation on the live session
// and persists the change.
func (m *Manager) SelectInstallation(ctx context.Context, id string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	cur := m.snapshot()
	if cur == nil {
		return ErrNoActiveSession
	}

	cur.InstallationID = id

	if err := m.persist(ctx, cur); err != nil {
		return err
	}

	m.adopt(cur)
	logger.InfoKV(ctx, "Installation selected", "installation_id", id)

	return nil
}

// Logout drops the live session, clears the stored one and releases the
// provider binding. Idempotent.
func (m *Manager) Logout(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.stateMu.Lock()
	m.current = nil
	m.stateMu.Unlock()

	if m.client != nil {
		m.client.SetToken("")
	}

	if err := m.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}

	logger.Info(ctx, "Logged out")

	return nil
}

// Status reports whether a session is live and, if so, its identity and
// selected installation.
func (m *Manager) Status() (authenticated bool, user, installation string) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.current == nil {
		return false, "", ""
	}

	return true, m.current.User, m.current.InstallationID
}

// snapshot returns a copy of the live session, nil when none.
func (m *Manager) snapshot() *domain.Session {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	return m.current.Clone()
}

// adopt installs the session as the live one.
func (m *Manager) adopt(s *domain.Session) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	m.current = s.Clone()
}

// persist writes the session through the repository.
func (m *Manager) persist(ctx context.Context, s *domain.Session) error {
	if err := m.repo.Save(ctx, s); err != nil {
		logger.Errorf(ctx, "Failed to persist session: %v", err)

		return fmt.Errorf("persist session: %w", err)
	}

	return nil
}
