package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	fcerrors "github.com/franzenjb/fourcolor/pkg/errors"
)

// FileStore keeps one JSON file per session, named <id>.json, in a
// directory readable only by the owner.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

// NewFileStore creates dir if needed and stores sessions in it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fcerrors.New(fcerrors.ErrCodeInvalidPath, "session directory is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Path returns the session directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) file(id string) (string, error) {
	if err := fcerrors.ValidateSessionID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	path, err := s.file(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	sess, err := readSession(path)
	s.mu.RUnlock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, err
	case s.now().After(sess.ExpiresAt):
		s.mu.Lock()
		os.Remove(path)
		s.mu.Unlock()
		return nil, nil
	}
	return sess, nil
}

// Set writes through a temporary file so a crash never leaves a truncated
// session behind.
func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	path, err := s.file(sess.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.file(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var infos []Info
	err := s.each(func(_ string, sess *Session) {
		if !now.After(sess.ExpiresAt) {
			infos = append(infos, sess.Info())
		}
	})
	SortInfos(infos)
	return infos, err
}

func (s *FileStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	err := s.each(func(path string, sess *Session) {
		if now.After(sess.ExpiresAt) && os.Remove(path) == nil {
			removed++
		}
	})
	return removed, err
}

func (s *FileStore) Close() error { return nil }

// each calls fn for every readable session file. Unreadable files are
// skipped.
func (s *FileStore) each(fn func(path string, sess *Session)) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if sess, err := readSession(path); err == nil {
			fn(path, sess)
		}
	}
	return nil
}

func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", filepath.Base(path), err)
	}
	return &sess, nil
}

var _ Store = (*FileStore)(nil)
