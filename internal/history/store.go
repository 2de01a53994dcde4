package history

import (
	"sync"
	"time"
)

// MaxEntries caps each session's history; the oldest entry is evicted
// once the cap is reached.
const MaxEntries = 50

// RequestSummary keeps just enough of the originating report to label a
// history row.
type RequestSummary struct {
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Situation   string   `json:"situation,omitempty"`
	SoundLabels []string `json:"soundLabels,omitempty"`
}

type Entry struct {
	Timestamp   time.Time      `json:"timestamp"`
	Diagnosis   string         `json:"diagnosis"`
	Severity    string         `json:"severity"`
	DangerLevel string         `json:"dangerLevel"`
	Summary     RequestSummary `json:"summary"`
}

// Store holds per-session diagnosis history in memory, newest first.
// It is session-scoped state handed to handlers explicitly; nothing is
// persisted, so history lives only as long as the process.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]Entry
}

func NewStore() *Store {
	return &Store{sessions: map[string][]Entry{}}
}

// Add inserts e at the front of the session's history, evicting the
// oldest entry past MaxEntries.
func (s *Store) Add(session string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sessions[session]
	entries = append([]Entry{e}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.sessions[session] = entries
}

// List returns a copy of the session's history, newest first.
func (s *Store) List(session string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sessions[session]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Clear drops the session's history.
func (s *Store) Clear(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session)
}
