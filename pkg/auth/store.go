package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "skypulse"
	passwordFile   = "app_password"
	fileMode       = 0600
)

// ErrNoPassword is returned when no app password is stored for the handle.
var ErrNoPassword = errors.New("no stored app password")

// Store keeps the app password in the OS keychain with a file fallback
// inside the app dir.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) filePath() string {
	return filepath.Join(s.dir, passwordFile)
}

// SavePassword stores the app password for the handle.
func (s *Store) SavePassword(handle, password string) error {
	if handle == "" || password == "" {
		return errors.New("handle and password are required")
	}

	if err := keyring.Set(keyringService, handle, password); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return s.savePasswordFile(password)
	}

	// Clean up file fallback if it exists
	os.Remove(s.filePath())

	return nil
}

// GetPassword returns the stored app password for the handle.
func (s *Store) GetPassword(handle string) (string, error) {
	if handle == "" {
		return "", errors.New("handle is required")
	}

	// Try keychain first
	pwd, err := keyring.Get(keyringService, handle)
	if err == nil && pwd != "" {
		return pwd, nil
	}

	// Fall back to file
	pwd, err = s.getPasswordFile()
	if err != nil {
		return "", err
	}

	// Migrate to keychain
	if migrateErr := keyring.Set(keyringService, handle, pwd); migrateErr == nil {
		slog.Info("migrated app password from file to OS keychain")
		os.Remove(s.filePath())
	}

	return pwd, nil
}

// DeletePassword removes the stored app password from both locations.
func (s *Store) DeletePassword(handle string) error {
	if err := keyring.Delete(keyringService, handle); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting keychain entry: %w", err)
	}
	if err := os.Remove(s.filePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting password file: %w", err)
	}
	return nil
}

func (s *Store) savePasswordFile(password string) error {
	if s.dir == "" {
		return errors.New("store directory not set")
	}
	return os.WriteFile(s.filePath(), []byte(password), fileMode)
}

func (s *Store) getPasswordFile() (string, error) {
	if s.dir == "" {
		return "", ErrNoPassword
	}
	b, err := os.ReadFile(s.filePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoPassword
		}
		return "", fmt.Errorf("reading password file %s: %w", s.filePath(), err)
	}
	pwd := strings.TrimSpace(string(b))
	if pwd == "" {
		return "", ErrNoPassword
	}
	return pwd, nil
}
