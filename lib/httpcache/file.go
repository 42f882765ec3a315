package httpcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/duke-git/lancet/v2/cryptor"
	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
)

const cacheFileSuffix = ".cache"

// FileStore keeps each value in its own file named by the SHA-256 of its key.
// Freshness is judged by the file modification time.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore returns a FileStore rooted at dir, creating dir if needed.
// A ttl of zero never expires values.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache directory not configured")
	}

	if !fileutil.IsExist(dir) {
		if err := fileutil.CreateDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	return &FileStore{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, cryptor.Sha256(key)+cacheFileSuffix)
}

// Get returns the fresh value stored under key. Stale files are removed.
func (s *FileStore) Get(key string) ([]byte, bool) {
	path := s.path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if expired(info.ModTime(), s.ttl, s.now()) {
		appstate.Logger.Debug("Cached response expired", "key", key, "stored_at", info.ModTime())
		s.remove(path)

		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		appstate.Logger.Warn("Failed to read cached response", "error", err, "path", path)

		return nil, false
	}

	return data, true
}

// Put writes value atomically through a temporary file and a rename.
func (s *FileStore) Put(key string, value []byte) error {
	path := s.path(key)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, value, cacheFilePermissions); err != nil {
		return fmt.Errorf("failed to write cache temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		s.remove(tmpPath)

		return fmt.Errorf("failed to rename cache temp file: %w", err)
	}

	// Stamp with the store clock so freshness follows it.
	stamp := s.now()
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		appstate.Logger.Debug("Failed to stamp cache file", "error", err, "path", path)
	}

	return nil
}

// Clear removes every cache file in the store directory.
func (s *FileStore) Clear() error {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+cacheFileSuffix))
	if err != nil {
		return fmt.Errorf("failed to list cache files: %w", err)
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache file %s: %w", path, err)
		}
	}

	appstate.Logger.Debug("HTTP cache cleared", "path", s.dir, "files", len(paths))

	return nil
}

// Close does nothing.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		appstate.Logger.Warn("Failed to remove cache file", "error", err, "path", path)
	}
}
