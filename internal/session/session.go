// Package session persists playback progress between runs.
package session

import (
	"strconv"

	"slideloop/internal/kvstore"
)

const (
	KeyLastSection     = "last_section"
	KeyLastSectionName = "last_section_name"
	KeyCycles          = "cycles"
	KeyLastRunID       = "last_run_id"
)

// Keys lists every key the session writes.
var Keys = []string{KeyLastSection, KeyLastSectionName, KeyCycles, KeyLastRunID}

// State is the saved progress of the most recent run.
type State struct {
	LastSection     int
	LastSectionName string
	Cycles          int
	LastRunID       string
	// Saved is false when no section was ever recorded.
	Saved bool
}

// Session reads and writes progress through a key-value store.
type Session struct {
	store kvstore.Store
}

// New returns a session on store.
func New(store kvstore.Store) *Session {
	return &Session{store: store}
}

// Load returns the saved state. Unparseable numbers read as zero.
func (s *Session) Load() State {
	var st State
	if raw, ok := s.store.GetItem(KeyLastSection); ok {
		if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 {
			st.LastSection = idx
			st.Saved = true
		}
	}
	st.LastSectionName, _ = s.store.GetItem(KeyLastSectionName)
	if raw, ok := s.store.GetItem(KeyCycles); ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			st.Cycles = n
		}
	}
	st.LastRunID, _ = s.store.GetItem(KeyLastRunID)
	return st
}

// BeginRun records the identifier of a new playback run.
func (s *Session) BeginRun(runID string) {
	s.store.SetItem(KeyLastRunID, runID)
}

// RecordSection stores the section being shown.
func (s *Session) RecordSection(index int, name string) {
	s.store.SetItem(KeyLastSection, strconv.Itoa(index))
	s.store.SetItem(KeyLastSectionName, name)
}

// AddCycles adds n completed passes to the running total.
func (s *Session) AddCycles(n int) {
	if n <= 0 {
		return
	}
	total := s.Load().Cycles + n
	s.store.SetItem(KeyCycles, strconv.Itoa(total))
}

// ResumeIndex returns the saved section if it is valid for a catalog of
// length n.
func (s *Session) ResumeIndex(n int) (int, bool) {
	st := s.Load()
	if !st.Saved || st.LastSection >= n {
		return 0, false
	}
	return st.LastSection, true
}

// Reset removes every session key.
func (s *Session) Reset() {
	for _, key := range Keys {
		s.store.RemoveItem(key)
	}
}
