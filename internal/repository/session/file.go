package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/efraespada/my-verisure/internal/config"
	domain "github.com/efraespada/my-verisure/internal/domain/session"
	"github.com/efraespada/my-verisure/internal/logger"
)

// Repository defines persistence operations for the session.
type Repository interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Clear(ctx context.Context) error
}

// ErrNotFound is returned when no usable session is stored. Missing,
// unreadable and corrupt files all collapse to this error: callers treat
// every one of them as "no session available".
var ErrNotFound = errors.New("session not found")

// FileRepository persists the session to a JSON file on disk under a
// per-user private directory.
type FileRepository struct {
	// path is the filesystem location of the JSON session file.
	path string
	// mu protects concurrent access to the session file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the
// provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the session from disk. It never surfaces corruption as a hard
// error; a file that cannot be read or parsed is treated as absent.
func (r *FileRepository) Load(ctx context.Context) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warnf(ctx, "Session file unreadable, treating as absent: %v", err)
		}

		return nil, ErrNotFound
	}

	var s domain.Session
	if err = json.Unmarshal(contents, &s); err != nil {
		logger.Warnf(ctx, "Session file corrupt, treating as absent: %v", err)

		return nil, ErrNotFound
	}

	if s.User == "" || s.Password == "" {
		logger.Warn(ctx, "Session file incomplete, treating as absent")

		return nil, ErrNotFound
	}

	return &s, nil
}

// Save writes the session to disk atomically: the JSON is written to a
// temporary file in the same directory and renamed over the destination,
// so a crash mid-write never leaves a partially written session behind.
func (r *FileRepository) Save(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tmpPath := tmp.Name()

	if err = writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("write session file: %w", err)
	}

	if err = os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("replace session file: %w", err)
	}

	return nil
}

// Clear removes the session file. Clearing an absent file is not an error.
func (r *FileRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}

// writeAndClose restricts permissions, writes the payload and closes the
// file, returning the first failure.
func writeAndClose(f *os.File, data []byte) error {
	if err := f.Chmod(config.DefaultFilePermissions); err != nil {
		_ = f.Close()

		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
