package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/garyjia/default-desk/internal/application/port"
	"go.uber.org/zap"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// FileKVStore implements port.KeyValueStore with one file per key under baseDir
type FileKVStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewFileKVStore creates a file-backed key-value store
func NewFileKVStore(baseDir string, logger *zap.Logger) *FileKVStore {
	return &FileKVStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Get implements port.KeyValueStore
func (s *FileKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	fullPath, err := s.pathFor(key)
	if err != nil {
		return "", false, err
	}

	content, err := os.ReadFile(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("Failed to read file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", false, fmt.Errorf("failed to read file: %w", err)
	}

	return string(content), true, nil
}

// Set implements port.KeyValueStore. The value is written to a temp file and renamed into place.
func (s *FileKVStore) Set(ctx context.Context, key, value string) error {
	fullPath, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.baseDir, 0700); err != nil {
		s.logger.Error("Failed to create storage directory",
			zap.String("path", s.baseDir),
			zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0600); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", tmp),
			zap.Error(err))
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	s.logger.Debug("Client storage saved",
		zap.String("path", fullPath),
		zap.Int("size", len(value)))

	return nil
}

// Remove implements port.KeyValueStore. Removing a missing key succeeds.
func (s *FileKVStore) Remove(ctx context.Context, key string) error {
	fullPath, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("Failed to delete file",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// pathFor maps a key to <baseDir>/<sanitized key>.json
func (s *FileKVStore) pathFor(key string) (string, error) {
	name := sanitizeKey(key)
	if name == "" {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}

	fullPath := filepath.Join(s.baseDir, name+".json")
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}

// sanitizeKey keeps only alphanumerics, hyphens and underscores
func sanitizeKey(key string) string {
	key = strings.ReplaceAll(key, "..", "")
	return unsafeKeyChars.ReplaceAllString(key, "")
}

// validatePath checks that the path is within baseDir
func (s *FileKVStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}

// Verify interface compliance
var _ port.KeyValueStore = (*FileKVStore)(nil)
