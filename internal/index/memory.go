package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/editor"
)

// MemoryIndex holds the open edit sessions and the islands reference list.
// It is the primary store; Redis only mirrors it.
type MemoryIndex struct {
	mu         sync.RWMutex
	sessions   map[string]*editor.Session // session ID -> Session
	islands    []domain.Island
	lastReload time.Time // last islands refresh
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		sessions: make(map[string]*editor.Session),
	}
}

// ─────────────────────────────────────────────────────────────────
// Session methods
// ─────────────────────────────────────────────────────────────────

// AddSession adds or replaces a session
func (idx *MemoryIndex) AddSession(s *editor.Session) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.sessions[s.ID()] = s
}

// GetSession retrieves a session by ID
func (idx *MemoryIndex) GetSession(id string) (*editor.Session, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	s, ok := idx.sessions[id]
	return s, ok
}

// DeleteSession removes a session and closes it, so a submission still in
// flight for it is discarded.
func (idx *MemoryIndex) DeleteSession(id string) {
	idx.mu.Lock()
	s, ok := idx.sessions[id]
	delete(idx.sessions, id)
	idx.mu.Unlock()

	if ok {
		s.Close()
	}
}

// GetAllSessions returns all sessions
func (idx *MemoryIndex) GetAllSessions() []*editor.Session {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	sessions := make([]*editor.Session, 0, len(idx.sessions))
	for _, s := range idx.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// SessionCount returns the number of open sessions
func (idx *MemoryIndex) SessionCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.sessions)
}

// ─────────────────────────────────────────────────────────────────
// Island methods
// ─────────────────────────────────────────────────────────────────

// UpdateIslands replaces the islands list
func (idx *MemoryIndex) UpdateIslands(islands []domain.Island) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.islands = append([]domain.Island(nil), islands...)
	idx.lastReload = time.Now()
}

// Islands returns a copy of the islands list
func (idx *MemoryIndex) Islands() []domain.Island {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]domain.Island(nil), idx.islands...)
}

// IslandCount returns the number of known islands
func (idx *MemoryIndex) IslandCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.islands)
}

// GetLastReload returns the timestamp of the last islands refresh
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
