package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements ImageStore on the local filesystem, rooted at a
// single directory. It backs development setups and tests.
type LocalStore struct {
	root   string
	logger *slog.Logger
}

// NewLocalStore creates a filesystem-backed image store rooted at dir,
// creating the directory if needed.
func NewLocalStore(dir string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	return &LocalStore{
		root:   dir,
		logger: logger.With(slog.String("component", "local_store")),
	}, nil
}

// Ensure LocalStore implements ImageStore
var _ ImageStore = (*LocalStore)(nil)

// resolve maps a storage path to a location under the root, rejecting any
// path that would escape it.
func (s *LocalStore) resolve(path string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return full, nil
}

// Put implements ImageStore.Put. The content type is recorded by the caller;
// the filesystem store only keeps the bytes.
func (s *LocalStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		s.logger.Error("failed to write image",
			slog.String("error", err.Error()),
			slog.String("path", path))
		return fmt.Errorf("failed to store image %s: %w", path, err)
	}

	s.logger.Debug("image stored",
		slog.String("path", path),
		slog.Int("size", len(data)))
	return nil
}

// Delete implements ImageStore.Delete.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}
	return nil
}
