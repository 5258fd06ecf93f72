package session

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/efraespada/my-verisure/internal/domain/session"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a
// missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	s, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, s)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load
// returns a session equal in all fields.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "nested", "session.json")
	repo := NewFileRepository(file)

	want := &domain.Session{
		User:           "12345678A",
		Password:       "hunter2",
		Hash:           "hash-token",
		RefreshToken:   "refresh-token",
		InstallationID: "0001",
		Timestamp:      time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestFileRepository_Permissions checks the file is owner-only and the
// directory private.
func TestFileRepository_Permissions(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	dir := filepath.Join(t.TempDir(), "private")
	file := filepath.Join(dir, "session.json")
	repo := NewFileRepository(file)

	require.NoError(t, repo.Save(context.Background(), &domain.Session{
		User:     "u",
		Password: "p",
	}))

	info, err := os.Stat(file)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

// TestFileRepository_CorruptTreatedAsAbsent ensures malformed or incomplete
// content collapses to ErrNotFound.
func TestFileRepository_CorruptTreatedAsAbsent(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "session.json")
	repo := NewFileRepository(file)

	// Malformed JSON.
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o600))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)

	// Valid JSON missing required fields.
	require.NoError(t, os.WriteFile(file, []byte(`{"user":"u"}`), 0o600))

	_, err = repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_ClearIdempotent verifies Clear removes the file and
// tolerates an absent one.
func TestFileRepository_ClearIdempotent(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "session.json")
	repo := NewFileRepository(file)

	require.NoError(t, repo.Save(context.Background(), &domain.Session{
		User:     "u",
		Password: "p",
	}))

	require.NoError(t, repo.Clear(context.Background()))

	_, err := os.Stat(file)
	require.ErrorIs(t, err, os.ErrNotExist)

	// Clearing again is not an error.
	require.NoError(t, repo.Clear(context.Background()))

	_, err = repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}
