// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Backup writes a byte-identical copy of the database file to dst. The
// connection is closed for the copy and reopened afterwards; if reopening
// fails the store stays closed.
func (s *Store) Backup(ctx context.Context, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrNotOpen
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close catalog for backup", "error", err)
	}
	s.db = nil

	copyErr := copyFile(s.path, dst)
	if copyErr != nil {
		s.logger.Error("backup failed", "from", s.path, "to", dst, "error", copyErr)
	}

	db, err := s.connect(ctx)
	if err != nil {
		return errors.Join(copyErr, fmt.Errorf("reopen catalog after backup: %w", err))
	}
	s.db = db

	if copyErr != nil {
		return fmt.Errorf("backup catalog: %w", copyErr)
	}
	s.logger.Info("catalog backed up", "to", dst)
	return nil
}

// Restore replaces the database file with the backup at src and reopens
// it. It fails with ErrBackupNotFound if src does not exist, leaving the
// current catalog untouched.
func (s *Store) Restore(ctx context.Context, src string) error {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("restore %s: %w", src, ErrBackupNotFound)
		}
		return fmt.Errorf("restore %s: %w", src, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrNotOpen
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close catalog for restore", "error", err)
	}
	s.db = nil

	copyErr := copyFile(src, s.path)
	if copyErr != nil {
		s.logger.Error("restore failed", "from", src, "to", s.path, "error", copyErr)
	}

	db, err := s.connect(ctx)
	if err != nil {
		return errors.Join(copyErr, fmt.Errorf("reopen catalog after restore: %w", err))
	}
	s.db = db

	if copyErr != nil {
		return fmt.Errorf("restore catalog: %w", copyErr)
	}
	s.logger.Info("catalog restored", "from", src)
	return nil
}

// copyFile copies src over dst through a temporary file in dst's directory
// so a failed copy never leaves a truncated dst behind.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".appshelf-copy-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
