package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds connection and locale parameters for the My Verisure client.
type Config struct {
	// APIBaseURL is the GraphQL endpoint of the My Verisure API.
	APIBaseURL string `yaml:"api_base_url"`
	// SessionFile is the path to the JSON file storing the session.
	// When empty, the per-user default under the home directory is used.
	SessionFile string `yaml:"session_file"`
	// Country is the two-letter country code sent with login requests.
	Country string `yaml:"country"`
	// Language is the language code sent with login requests.
	Language string `yaml:"lang"`
	// Timeout is the duration for network operations against the API.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for client settings.
	DefaultConfigFilename = "my-verisure-settings.yaml"

	// DefaultAPIBaseURL is the production My Verisure GraphQL endpoint.
	DefaultAPIBaseURL = "https://customers.securitasdirect.es/owa-api/graphql"

	// DefaultCountry is the country code used when none is configured.
	DefaultCountry = "ES"

	// DefaultLanguage is the language code used when none is configured.
	DefaultLanguage = "es"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the permission mode for files we create.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is the permission mode for the session directory.
	DefaultDirPermissions = 0o700

	// sessionDirName is the per-user directory holding the session file.
	sessionDirName = ".my-verisure"

	// sessionFileName is the session file inside the per-user directory.
	sessionFileName = "session.json"
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Load reads configuration from the provided path and validates essential fields.
// A missing file yields the defaults rather than an error, so the CLI works
// without any settings file present.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := new(Config)
			if err = Validate(cfg); err != nil {
				return nil, err
			}

			return cfg, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults for empty fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.Country == "" {
		cfg.Country = DefaultCountry
	}

	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}

	if cfg.SessionFile == "" {
		path, err := DefaultSessionFile()
		if err != nil {
			return err
		}

		cfg.SessionFile = path
	}

	return nil
}

// DefaultSessionFile returns the per-user session file path,
// e.g. ~/.my-verisure/session.json.
func DefaultSessionFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, sessionDirName, sessionFileName), nil
}
