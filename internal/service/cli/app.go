package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	alarmdomain "github.com/efraespada/my-verisure/internal/domain/alarm"
	sessiondomain "github.com/efraespada/my-verisure/internal/domain/session"

	"github.com/efraespada/my-verisure/internal/config"
	"github.com/efraespada/my-verisure/internal/provider"
	sessionrepo "github.com/efraespada/my-verisure/internal/repository/session"
	alarmsvc "github.com/efraespada/my-verisure/internal/service/alarm"
	"github.com/efraespada/my-verisure/internal/service/auth"
	sessionsvc "github.com/efraespada/my-verisure/internal/service/session"
)

// loggerName identifies this binary in log output.
const loggerName = "my-verisure"

// authenticator is the slice of the auth service the login flow drives.
type authenticator interface {
	Login(ctx context.Context, user, password string) (*sessiondomain.Session, *auth.Challenge, error)
	SendOTP(ctx context.Context, ch *auth.Challenge, phoneID int) error
	VerifyOTP(ctx context.Context, ch *auth.Challenge, code string) (*sessiondomain.Session, error)
}

// sessions is the slice of the session manager the commands drive.
type sessions interface {
	EnsureSession(ctx context.Context) (*sessiondomain.Session, error)
	CompleteLogin(ctx context.Context, s *sessiondomain.Session) error
	SelectInstallation(ctx context.Context, id string) error
	Logout(ctx context.Context) error
	Status() (authenticated bool, user, installation string)
}

// panel is the alarm command surface.
type panel interface {
	Status(ctx context.Context) (alarmdomain.PanelState, error)
	ArmAway(ctx context.Context) (alarmdomain.PanelState, error)
	ArmHome(ctx context.Context) (alarmdomain.PanelState, error)
	ArmNight(ctx context.Context) (alarmdomain.PanelState, error)
	Disarm(ctx context.Context, code string) (alarmdomain.PanelState, error)
}

// App bundles the client stack with the terminal streams of one invocation.
type App struct {
	cfg      *config.Config
	client   provider.Client
	auth     authenticator
	sessions sessions
	panel    panel

	in  *bufio.Reader
	out io.Writer
}

// newApp builds the full stack from the settings file: provider client,
// session repository, authenticator, session manager and alarm service.
func newApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	client, err := provider.NewClient(
		cfg.APIBaseURL,
		provider.WithCallTimeout(cfg.Timeout),
		provider.WithLocale(cfg.Country, cfg.Language),
	)
	if err != nil {
		return nil, fmt.Errorf("create provider client: %w", err)
	}

	authSvc := auth.New(client)
	manager := sessionsvc.NewManager(sessionrepo.NewFileRepository(cfg.SessionFile), authSvc, client)

	return &App{
		cfg:      cfg,
		client:   client,
		auth:     authSvc,
		sessions: manager,
		panel:    alarmsvc.NewService(manager, client),
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Close releases the provider connection.
func (a *App) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
}

// prompt prints a label and reads one trimmed line from the input stream.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)

	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question and treats anything but y/yes as no.
func (a *App) confirm(question string) (bool, error) {
	answer, err := a.prompt(question + " [y/N]: ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
