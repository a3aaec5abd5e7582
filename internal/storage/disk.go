package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrPathOutsideRoot is returned for paths that would resolve outside the
// storage root.
var ErrPathOutsideRoot = errors.New("path escapes storage root")

// DiskStorage implements Storage on the local filesystem.
type DiskStorage struct {
	logger  *zap.Logger
	baseDir string
}

// NewDiskStorage creates a disk storage rooted at baseDir.
func NewDiskStorage(logger *zap.Logger, baseDir string) (*DiskStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &DiskStorage{
		logger:  logger.Named("storage.disk"),
		baseDir: baseDir,
	}, nil
}

// resolve maps a relative path under baseDir, refusing anything that would
// land outside it.
func (s *DiskStorage) resolve(path string) (string, error) {
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(path))
	root := filepath.Clean(s.baseDir)
	if fullPath != root && !strings.HasPrefix(fullPath, root+string(os.PathSeparator)) {
		return "", ErrPathOutsideRoot
	}
	return fullPath, nil
}

// Save writes content under baseDir/path, creating parent directories.
func (s *DiskStorage) Save(ctx context.Context, path string, content io.Reader) (string, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", err
	}

	s.logger.Debug("saved document file", zap.String("path", path))
	return filepath.ToSlash(path), nil
}

// Open returns the file previously saved under path.
func (s *DiskStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Remove deletes the file previously saved under path.
func (s *DiskStorage) Remove(ctx context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(fullPath)
}
