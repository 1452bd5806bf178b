package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockTimeout       = 3 * time.Second
	lockRetryInterval = 50 * time.Millisecond
)

// FileStore persists the token between CLI invocations.
// The file is the command-line counterpart of the browser's user cookie.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore returns a store backed by path. The directory must exist before Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the token file path.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether a token file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the token. It returns ErrNoSession if none was saved.
func (s *FileStore) Load() (Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	tok := Token(strings.TrimSpace(string(data)))
	if tok.Empty() {
		return "", ErrNoSession
	}
	return tok, nil
}

// Save writes the token with mode 0600.
func (s *FileStore) Save(tok Token) error {
	if tok.Empty() {
		return errors.New("save session: empty token")
	}
	return s.withLock(func() error {
		return os.WriteFile(s.path, []byte(tok), 0600)
	})
}

// Clear deletes the token file. It reports whether a file was removed.
func (s *FileStore) Clear() (bool, error) {
	removed := false
	err := s.withLock(func() error {
		err := os.Remove(s.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		removed = true
		return nil
	})
	return removed, err
}

func (s *FileStore) withLock(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !locked {
		return errors.New("could not acquire session lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	return fn()
}
