// Package stats records update statistics across runs.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
)

var (
	// ErrStatsCorrupted is returned when the statistics file cannot be parsed
	ErrStatsCorrupted = errors.New("statistics file is corrupted")
)

// maxHistory caps the retained history entries
const maxHistory = 100

// HistoryEntry records a single successful source update
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Component string    `json:"component"`
	ItemCount int       `json:"item_count"`
}

// Stats is the on-disk statistics document
type Stats struct {
	TotalUpdates     int            `json:"total_updates"`
	LastUpdate       *time.Time     `json:"last_update"`
	ComponentUpdates map[string]int `json:"component_updates"`
	History          []HistoryEntry `json:"update_history"`
}

// Store persists update statistics to a JSON file
type Store struct {
	path    string
	nowFunc func() time.Time
}

// Option is a functional option for configuring Store
type Option func(*Store)

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = fn
	}
}

// NewStore creates a store backed by the given JSON file
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the statistics document.
// A missing or corrupted file yields a fresh document.
func (s *Store) Load() (*Stats, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyStats(), nil
		}
		return nil, err
	}

	var st Stats
	if err := json.Unmarshal(data, &st); err != nil {
		return emptyStats(), fmt.Errorf("%w: %v", ErrStatsCorrupted, err)
	}
	if st.ComponentUpdates == nil {
		st.ComponentUpdates = make(map[string]int)
	}

	return &st, nil
}

func emptyStats() *Stats {
	return &Stats{
		ComponentUpdates: make(map[string]int),
	}
}

// RecordUpdate records one successful source update. The component label
// identifies the source ("pacman", "yay", "flatpak", "git:<name>") and
// itemCount is the number of updated items for batch sources.
func (s *Store) RecordUpdate(component string, itemCount int) error {
	st, err := s.Load()
	if err != nil && !errors.Is(err, ErrStatsCorrupted) {
		return err
	}

	now := s.nowFunc()
	st.TotalUpdates++
	st.LastUpdate = &now
	st.ComponentUpdates[component]++
	st.History = append(st.History, HistoryEntry{
		Timestamp: now,
		Component: component,
		ItemCount: itemCount,
	})

	if len(st.History) > maxHistory {
		st.History = st.History[len(st.History)-maxHistory:]
	}

	return s.save(st)
}

// save persists the statistics document atomically
func (s *Store) save(st *Stats) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal statistics: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write statistics file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename statistics file: %w", err)
	}

	return nil
}

// TopComponents returns up to n components sorted by update count descending
func (st *Stats) TopComponents(n int) []string {
	components := make([]string, 0, len(st.ComponentUpdates))
	for c := range st.ComponentUpdates {
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool {
		ci, cj := st.ComponentUpdates[components[i]], st.ComponentUpdates[components[j]]
		if ci != cj {
			return ci > cj
		}
		return components[i] < components[j]
	})

	if len(components) > n {
		components = components[:n]
	}
	return components
}

// Recent returns the most recent n history entries, oldest first
func (st *Stats) Recent(n int) []HistoryEntry {
	if len(st.History) <= n {
		return st.History
	}
	return st.History[len(st.History)-n:]
}
