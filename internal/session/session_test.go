package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"slideloop/internal/kvstore"
	"slideloop/internal/session"
)

func newSession() (*session.Session, *kvstore.FallbackStore) {
	store := kvstore.NewFallback(kvstore.NewMemoryBackend(), time.Second, nil)
	return session.New(store), store
}

func TestLoadEmpty(t *testing.T) {
	s, _ := newSession()
	st := s.Load()
	assert.False(t, st.Saved)
	assert.Zero(t, st.Cycles)
	_, ok := s.ResumeIndex(5)
	assert.False(t, ok)
}

func TestRecordAndResume(t *testing.T) {
	s, _ := newSession()
	s.BeginRun("run-1")
	s.RecordSection(3, "Website")
	s.AddCycles(2)
	s.AddCycles(1)
	s.AddCycles(0)

	st := s.Load()
	assert.Equal(t, session.State{
		LastSection:     3,
		LastSectionName: "Website",
		Cycles:          3,
		LastRunID:       "run-1",
		Saved:           true,
	}, st)

	idx, ok := s.ResumeIndex(5)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = s.ResumeIndex(3)
	assert.False(t, ok, "saved index beyond a shorter catalog is ignored")
}

func TestCorruptValuesReadAsZero(t *testing.T) {
	s, store := newSession()
	store.SetItem(session.KeyLastSection, "banana")
	store.SetItem(session.KeyCycles, "-4")

	st := s.Load()
	assert.False(t, st.Saved)
	assert.Zero(t, st.Cycles)
}

func TestReset(t *testing.T) {
	s, store := newSession()
	s.RecordSection(1, "Music App")
	store.SetItem("unrelated", "kept")

	s.Reset()
	assert.False(t, s.Load().Saved)
	value, ok := store.GetItem("unrelated")
	assert.True(t, ok)
	assert.Equal(t, "kept", value)
}
