// Package infra implements infrastructure concerns (persistence,
// process resolution, signature caching, platform detection).
package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dazzletools/wingather/internal/domain"
)

// ErrNoUndoState is returned when no reveal state has been saved.
var ErrNoUndoState = errors.New("no undo state found")

const undoStateVersion = 1

// FileUndoStore implements domain.UndoStore with a JSON file in the
// per-user application-data directory. Writes replace the whole file
// atomically (temp file + rename), never partially.
type FileUndoStore struct {
	path       string
	appVersion string
}

// NewFileUndoStore creates the store at the default per-user location.
func NewFileUndoStore(appVersion string) *FileUndoStore {
	return &FileUndoStore{
		path:       filepath.Join(stateDir(), "last_shown.json"),
		appVersion: appVersion,
	}
}

// NewFileUndoStoreWithPath creates a store at a specific path (for testing).
func NewFileUndoStoreWithPath(path, appVersion string) *FileUndoStore {
	return &FileUndoStore{path: path, appVersion: appVersion}
}

// stateDir returns the per-user application-data directory.
func stateDir() string {
	if runtime.GOOS == "windows" {
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			base, _ = os.UserHomeDir()
		}
		return filepath.Join(base, "wingather")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "wingather")
}

// Path returns the store file location.
func (s *FileUndoStore) Path() string { return s.path }

// Save replaces the stored set with the given entries.
func (s *FileUndoStore) Save(entries []domain.UndoEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	state := domain.UndoState{
		Version:   undoStateVersion,
		Timestamp: time.Now(),
		App:       s.appVersion,
		Entries:   entries,
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first (unique per process to avoid race)
	tmpPath := fmt.Sprintf("%s.%d.tmp", s.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) // Clean up on failure
		return err
	}
	return nil
}

// Load returns the stored entries and when they were saved.
func (s *FileUndoStore) Load() ([]domain.UndoEntry, time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, ErrNoUndoState
		}
		return nil, time.Time{}, err
	}

	var state domain.UndoState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse undo state: %w", err)
	}
	return state.Entries, state.Timestamp, nil
}

// Clear removes the store entirely. Clearing an absent store is fine.
func (s *FileUndoStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Ensure FileUndoStore implements domain.UndoStore.
var _ domain.UndoStore = (*FileUndoStore)(nil)
