// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the default settings file name inside the config directory.
const FileName = "settings.toml"

// FileStore is a Store backed by a TOML file. Every Set rewrites the whole
// file atomically (temp file + rename) while holding the store lock.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]any
	logger *log.Logger
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithLogger sets the logger used to report unreadable settings files.
func WithLogger(l *log.Logger) FileOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// OpenFile loads the settings file at path. A missing file is not an error;
// the store starts empty and the file is created on the first Set.
func OpenFile(path string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]any),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Path returns the settings file path.
func (s *FileStore) Path() string { return s.path }

// Get implements Store.
func (s *FileStore) Get(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set implements Store.
func (s *FileStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value

	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		s.logger.Error("failed to save settings", "path", s.path, "key", key, "error", err)
		return err
	}
	return nil
}

// flush writes all values to disk. Callers must hold s.mu.
func (s *FileStore) flush() error {
	data, err := toml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
