package alarm

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/efraespada/my-verisure/internal/domain/alarm"
	sessiondomain "github.com/efraespada/my-verisure/internal/domain/session"
	"github.com/efraespada/my-verisure/internal/logger"
	"github.com/efraespada/my-verisure/internal/provider"
)

// ErrNoInstallation is returned when the account has no installation to
// operate on.
var ErrNoInstallation = errors.New("no installation available")

// Sessions is the slice of the session manager the alarm service depends on.
type Sessions interface {
	EnsureSession(ctx context.Context) (*sessiondomain.Session, error)
	SelectInstallation(ctx context.Context, id string) error
}

// Service exposes the alarm operations of the command surface: status,
// arm in its three modes, and disarm. Every operation ensures a valid
// session first and resolves raw zone data through the aggregator.
type Service struct {
	// sessions guarantees a valid session before provider calls.
	sessions Sessions
	// client is the remote provider.
	client provider.Client
	// agg folds zone snapshots and transient transitions into panel states.
	agg *domain.Aggregator
}

// NewService creates the alarm service.
func NewService(sessions Sessions, client provider.Client) *Service {
	return &Service{
		sessions: sessions,
		client:   client,
		agg:      domain.NewAggregator(),
	}
}

// Status fetches a fresh zone snapshot and resolves it into the panel state.
func (s *Service) Status(ctx context.Context) (domain.PanelState, error) {
	installationID, err := s.installation(ctx)
	if err != nil {
		return domain.PanelState{}, err
	}

	snap, err := s.client.AlarmStatus(ctx, installationID)
	if err != nil {
		return domain.PanelState{}, fmt.Errorf("fetch alarm status: %w", err)
	}

	state := s.agg.Resolve(snap)

	logger.InfoKV(ctx, "Alarm status resolved",
		"installation_id", installationID,
		"mode", state.Mode,
		"active", state.ActiveCount,
	)

	return state, nil
}

// ArmAway arms full internal protection.
func (s *Service) ArmAway(ctx context.Context) (domain.PanelState, error) {
	return s.arm(ctx, provider.RequestArmAway)
}

// ArmHome arms the perimeter.
func (s *Service) ArmHome(ctx context.Context) (domain.PanelState, error) {
	return s.arm(ctx, provider.RequestArmHome)
}

// ArmNight arms the internal night zone.
func (s *Service) ArmNight(ctx context.Context) (domain.PanelState, error) {
	return s.arm(ctx, provider.RequestArmNight)
}

// Disarm disarms the panel with the given code.
func (s *Service) Disarm(ctx context.Context, code string) (domain.PanelState, error) {
	installationID, err := s.installation(ctx)
	if err != nil {
		return domain.PanelState{}, err
	}

	if err = s.agg.BeginTransition(domain.TransitionDisarming); err != nil {
		return domain.PanelState{}, err
	}

	logger.InfoKV(ctx, "Disarming", "installation_id", installationID)

	err = s.client.Disarm(ctx, installationID, code)

	// The transient state ends the moment the outcome is known, success
	// or failure.
	s.agg.EndTransition()

	if err != nil {
		return domain.PanelState{}, fmt.Errorf("disarm: %w", err)
	}

	return s.settle(ctx, installationID)
}

// InTransition reports whether an arm or disarm command is in flight.
func (s *Service) InTransition() bool {
	return s.agg.InTransition()
}

// arm issues one arm verb under a transition and returns the settled state.
func (s *Service) arm(ctx context.Context, request string) (domain.PanelState, error) {
	installationID, err := s.installation(ctx)
	if err != nil {
		return domain.PanelState{}, err
	}

	if err = s.agg.BeginTransition(domain.TransitionArming); err != nil {
		return domain.PanelState{}, err
	}

	logger.InfoKV(ctx, "Arming", "installation_id", installationID, "request", request)

	err = s.client.Arm(ctx, installationID, request)

	s.agg.EndTransition()

	if err != nil {
		return domain.PanelState{}, fmt.Errorf("arm: %w", err)
	}

	return s.settle(ctx, installationID)
}

// settle refetches the zone snapshot after a command and resolves the
// settled mode.
func (s *Service) settle(ctx context.Context, installationID string) (domain.PanelState, error) {
	snap, err := s.client.AlarmStatus(ctx, installationID)
	if err != nil {
		return domain.PanelState{}, fmt.Errorf("fetch settled status: %w", err)
	}

	state := s.agg.Resolve(snap)

	logger.InfoKV(ctx, "Panel settled", "mode", state.Mode)

	return state, nil
}

// installation ensures a session and returns the installation to operate
// on, auto-selecting the only one when none has been chosen yet.
func (s *Service) installation(ctx context.Context) (string, error) {
	sess, err := s.sessions.EnsureSession(ctx)
	if err != nil {
		return "", err
	}

	if sess.InstallationID != "" {
		return sess.InstallationID, nil
	}

	installations, err := s.client.Installations(ctx)
	if err != nil {
		return "", fmt.Errorf("list installations: %w", err)
	}

	if len(installations) == 0 {
		return "", ErrNoInstallation
	}

	chosen := installations[0].ID
	if err = s.sessions.SelectInstallation(ctx, chosen); err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Installation auto-selected", "installation_id", chosen)

	return chosen, nil
}
