// Package session persists the signed-in dashboard user for feedtrackctl.
// The user object lives in ~/.feedtrack/session.yaml; the access token is
// kept out of the file, in the system keyring (macOS Keychain, Windows
// Credential Manager, Linux Secret Service).
//
// FEEDTRACK_TOKEN overrides the stored token, which is convenient in CI.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	// KeyringService and KeyringUser locate the token in the system keyring.
	KeyringService = "feedtrack"
	KeyringUser    = "authToken"

	DefaultDir  = ".feedtrack"
	sessionFile = "session.yaml"

	// TokenEnv overrides the stored token when set.
	TokenEnv = "FEEDTRACK_TOKEN"
)

var (
	// ErrNoSession is returned when nobody is logged in.
	ErrNoSession = errors.New("no session stored")
	// ErrExpired is returned when the stored session is past its expiry.
	ErrExpired = errors.New("stored session has expired")
)

// Session is the persisted part of a login.
type Session struct {
	User      domain.User `yaml:"user"`
	Server    string      `yaml:"server,omitempty"`
	ExpiresAt time.Time   `yaml:"expires_at"`
	SavedAt   time.Time   `yaml:"saved_at"`
}

// Expired reports whether the session is past ExpiresAt. A zero expiry
// never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Dir returns $FEEDTRACK_CONFIG_DIR, or ~/.feedtrack.
func Dir() (string, error) {
	if dir := os.Getenv("FEEDTRACK_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultDir), nil
}

// Store reads and writes the session file and keyring entry.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, sessionFile)
}

// Save writes the user to disk and the token to the keyring.
func (s *Store) Save(sess Session, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	sess.SavedAt = s.now().UTC()
	data, err := yaml.Marshal(&sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	if err := keyring.Set(KeyringService, KeyringUser, token); err != nil {
		return fmt.Errorf("storing token in keyring: %w", err)
	}
	return nil
}

// Load returns the stored session and its token. The token comes from
// FEEDTRACK_TOKEN when set, otherwise from the keyring.
func (s *Store) Load() (*Session, string, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNoSession
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading session file: %w", err)
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, "", fmt.Errorf("parsing session file: %w", err)
	}
	if sess.Expired(s.now()) {
		return &sess, "", ErrExpired
	}

	token, err := s.Token()
	if err != nil {
		return &sess, "", err
	}
	return &sess, token, nil
}

// Token returns the access token without reading the session file.
func (s *Store) Token() (string, error) {
	if t := os.Getenv(TokenEnv); t != "" {
		return t, nil
	}
	token, err := keyring.Get(KeyringService, KeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("reading token from keyring: %w", err)
	}
	return token, nil
}

// Clear removes the session file and the keyring entry. Missing entries are
// not an error.
func (s *Store) Clear() error {
	var errs []error
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("removing session file: %w", err))
	}
	if err := keyring.Delete(KeyringService, KeyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		errs = append(errs, fmt.Errorf("removing token from keyring: %w", err))
	}
	return errors.Join(errs...)
}
