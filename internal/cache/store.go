package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// snapshotFileExtension is the file extension used for snapshot files.
const snapshotFileExtension = ".json"

// Common cache errors.
var (
	ErrNotFound   = errors.New("snapshot not found")
	ErrExpired    = errors.New("snapshot expired")
	ErrInvalidURL = errors.New("snapshot URL cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// Store keeps holdings snapshots as JSON files in a directory.
// Safe for concurrent use.
type Store struct {
	directory  string
	enabled    bool
	ttlSeconds int

	// mu guards the snapshot files.
	mu sync.RWMutex
}

// NewStore creates a snapshot store, creating directory if needed.
// A disabled store accepts every call and returns ErrDisabled.
func NewStore(directory string, enabled bool, ttlSeconds int) (*Store, error) {
	if !enabled {
		return &Store{enabled: false}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if ttlSeconds < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTTL, ttlSeconds)
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
	}, nil
}

// Get returns the snapshot for url.
// Returns ErrNotFound when none exists and ErrExpired when it is past its TTL;
// in the latter case the expired snapshot is returned alongside the error.
func (s *Store) Get(url string) (*Snapshot, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if url == "" {
		return nil, ErrInvalidURL
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := readSnapshot(s.pathFor(KeyForURL(url)))
	if err != nil {
		return nil, err
	}
	if snap.IsExpired() {
		return snap, ErrExpired
	}
	return snap, nil
}

// Put stores payload as the snapshot for url, replacing any previous one.
func (s *Store) Put(url string, payload json.RawMessage, fetchedAt time.Time) error {
	if !s.enabled {
		return ErrDisabled
	}
	if url == "" {
		return ErrInvalidURL
	}

	snap := NewSnapshot(url, payload, fetchedAt, s.ttlSeconds)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(snap.Key)
	// Write to a temporary file first, then rename for atomicity.
	tempPath := path + ".tmp"
	if writeErr := os.WriteFile(tempPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write snapshot file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename snapshot file: %w", renameErr)
	}
	return nil
}

// Delete removes the snapshot for url. Deleting a missing snapshot is not an error.
func (s *Store) Delete(url string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if url == "" {
		return ErrInvalidURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.pathFor(KeyForURL(url)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}

// Clear removes every snapshot and returns how many were removed.
func (s *Store) Clear() (int, error) {
	return s.removeWhere(func(string) bool { return true })
}

// CleanupExpired removes expired snapshots and returns how many were removed.
// Unreadable files are skipped.
func (s *Store) CleanupExpired() (int, error) {
	return s.removeWhere(func(path string) bool {
		snap, err := readSnapshot(path)
		return err == nil && snap.IsExpired()
	})
}

func (s *Store) removeWhere(match func(path string) bool) (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.snapshotFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range files {
		if !match(path) {
			continue
		}
		if removeErr := os.Remove(path); removeErr != nil {
			return removed, fmt.Errorf("failed to remove snapshot file %s: %w", filepath.Base(path), removeErr)
		}
		removed++
	}
	return removed, nil
}

// List returns every readable snapshot, newest first. Expired snapshots are included.
func (s *Store) List() ([]*Snapshot, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.snapshotFiles()
	if err != nil {
		return nil, err
	}

	snaps := make([]*Snapshot, 0, len(files))
	for _, path := range files {
		snap, readErr := readSnapshot(path)
		if readErr != nil {
			continue
		}
		snaps = append(snaps, snap)
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].FetchedAt.After(snaps[j].FetchedAt)
	})
	return snaps, nil
}

// Size returns the total size of the snapshot files in bytes.
func (s *Store) Size() (int64, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.snapshotFiles()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, path := range files {
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// Count returns the number of snapshot files, including expired ones.
func (s *Store) Count() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.snapshotFiles()
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// IsEnabled reports whether snapshots are stored.
func (s *Store) IsEnabled() bool {
	return s.enabled
}

// Directory returns the snapshot directory.
func (s *Store) Directory() string {
	return s.directory
}

// TTL returns the TTL applied to new snapshots, 0 for none.
func (s *Store) TTL() time.Duration {
	return time.Duration(s.ttlSeconds) * time.Second
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.directory, key+snapshotFileExtension)
}

// snapshotFiles lists the snapshot file paths. Callers hold s.mu.
func (s *Store) snapshotFiles() ([]string, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != snapshotFileExtension {
			continue
		}
		files = append(files, filepath.Join(s.directory, entry.Name()))
	}
	return files, nil
}

func readSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var snap Snapshot
	if unmarshalErr := json.Unmarshal(data, &snap); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", unmarshalErr)
	}
	return &snap, nil
}
