// Package repos manages the list of user-tracked git checkouts and the
// git operations used to bring them up to date.
package repos

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotTracked is returned when removing a repository that is not in the list
	ErrNotTracked = errors.New("repository not found in tracked list")
	// ErrAlreadyTracked is returned when adding a repository that is already tracked
	ErrAlreadyTracked = errors.New("repository already tracked")
	// ErrNotARepo is returned when a path is not a git repository
	ErrNotARepo = errors.New("not a git repository")
	// ErrPathNotFound is returned when a tracked path does not exist
	ErrPathNotFound = errors.New("path does not exist")
)

// reposFile represents the JSON structure stored on disk
type reposFile struct {
	Repositories []string `json:"repositories"`
}

// Store persists the ordered list of tracked repository paths
type Store struct {
	path string
}

// NewStore creates a store backed by the given JSON file
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the tracked repository paths in order.
// A missing file yields an empty list.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var rf reposFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse repositories file: %w", err)
	}

	return rf.Repositories, nil
}

// Save writes the tracked repository paths, preserving order.
// Writes go through a temp file and rename for atomicity.
func (s *Store) Save(paths []string) error {
	rf := reposFile{Repositories: paths}
	if rf.Repositories == nil {
		rf.Repositories = []string{}
	}

	data, err := json.MarshalIndent(rf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal repositories: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write repositories file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename repositories file: %w", err)
	}

	return nil
}

// Add validates and appends a repository path to the tracked list.
// The path is normalized to an absolute path with ~ expanded.
func (s *Store) Add(path string) (string, error) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return "", err
	}

	if err := ValidateRepo(normalized); err != nil {
		return "", err
	}

	paths, err := s.Load()
	if err != nil {
		return "", err
	}

	for _, p := range paths {
		if p == normalized {
			return normalized, ErrAlreadyTracked
		}
	}

	paths = append(paths, normalized)
	if err := s.Save(paths); err != nil {
		return "", err
	}

	return normalized, nil
}

// Remove deletes a repository path from the tracked list
func (s *Store) Remove(path string) (string, error) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return "", err
	}

	paths, err := s.Load()
	if err != nil {
		return "", err
	}

	kept := paths[:0]
	found := false
	for _, p := range paths {
		if p == normalized {
			found = true
			continue
		}
		kept = append(kept, p)
	}

	if !found {
		return normalized, ErrNotTracked
	}

	if err := s.Save(kept); err != nil {
		return "", err
	}

	return normalized, nil
}

// NormalizePath expands ~ and resolves the path to an absolute form
func NormalizePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// ValidateRepo checks that a path exists and contains a git checkout
func ValidateRepo(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return fmt.Errorf("%w: %s", ErrNotARepo, path)
	}

	return nil
}

// DisplayName returns the user-facing name of a repository path,
// the base directory name with the first letter upper-cased.
func DisplayName(path string) string {
	name := filepath.Base(path)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
