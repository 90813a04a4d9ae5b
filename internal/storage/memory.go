package storage

import (
	"sync"
	"time"

	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

var _ SessionStore = (*MemoryStore)(nil)

// MemoryStore holds all sessions in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	menus     map[string]*models.MenuSession
	dialogues map[string]*models.DialogueSession

	menuLocks     *keyedMutex
	dialogueLocks *keyedMutex

	maxTurns int
}

// MemoryOption customizes MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMaxTurns bounds the dialogue history kept per sender. Zero keeps
// everything.
func WithMaxTurns(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n >= 0 {
			s.maxTurns = n
		}
	}
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		menus:         make(map[string]*models.MenuSession),
		dialogues:     make(map[string]*models.DialogueSession),
		menuLocks:     newKeyedMutex(),
		dialogueLocks: newKeyedMutex(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Menu session operations

func (s *MemoryStore) LockMenu(sessionID string) func() {
	return s.menuLocks.Lock(sessionID)
}

func (s *MemoryStore) GetOrCreateMenuSession(sessionID, phone string, now time.Time) *models.MenuSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.menus[sessionID]; ok {
		return existing.Clone()
	}

	session := models.NewMenuSession(sessionID, phone, now)
	s.menus[sessionID] = session
	return session.Clone()
}

func (s *MemoryStore) GetMenuSession(sessionID string) (*models.MenuSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.menus[sessionID]
	if !ok {
		return nil, false
	}
	return session.Clone(), true
}

func (s *MemoryStore) SaveMenuSession(session *models.MenuSession) {
	if session == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.menus[session.SessionID] = session.Clone()
}

func (s *MemoryStore) DeleteMenuSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.menus, sessionID)
}

// SweepExpiredMenuSessions removes menu sessions idle for longer than
// timeout and returns how many were removed.
func (s *MemoryStore) SweepExpiredMenuSessions(now time.Time, timeout time.Duration) int {
	s.mu.RLock()
	var candidates []string
	for id, session := range s.menus {
		if now.Sub(session.LastActiveAt) > timeout {
			candidates = append(candidates, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range candidates {
		unlock := s.LockMenu(id)
		s.mu.Lock()
		// An in-flight request may have refreshed the session meanwhile.
		if session, ok := s.menus[id]; ok && now.Sub(session.LastActiveAt) > timeout {
			delete(s.menus, id)
			removed++
		}
		s.mu.Unlock()
		unlock()
	}
	return removed
}

// Dialogue session operations

func (s *MemoryStore) LockDialogue(senderID string) func() {
	return s.dialogueLocks.Lock(senderID)
}

func (s *MemoryStore) GetDialogueSession(senderID string) (*models.DialogueSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.dialogues[senderID]
	if !ok {
		return nil, false
	}
	return session.Clone(), true
}

func (s *MemoryStore) ResetDialogueSession(senderID string, now time.Time) *models.DialogueSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &models.DialogueSession{
		SenderID:     senderID,
		Turns:        []models.Turn{},
		LastActiveAt: now,
	}
	s.dialogues[senderID] = session
	return session.Clone()
}

func (s *MemoryStore) AppendTurn(senderID string, turn models.Turn, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.dialogues[senderID]
	if !ok {
		return ErrSessionNotFound
	}

	session.Turns = append(session.Turns, turn)
	session.LastActiveAt = now
	session.Turns = trimTurns(session.Turns, s.maxTurns)
	return nil
}

// trimTurns keeps at most max turns, dropping from the front so that the
// history still opens with a user turn.
func trimTurns(turns []models.Turn, max int) []models.Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	drop := len(turns) - max
	for drop < len(turns) && turns[drop].Role != models.RoleUser {
		drop++
	}
	kept := make([]models.Turn, len(turns)-drop)
	copy(kept, turns[drop:])
	return kept
}

func (s *MemoryStore) DeleteDialogueSession(senderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.dialogues, senderID)
}

// SweepExpiredDialogueSessions removes dialogue sessions idle for longer
// than timeout. A non-positive timeout disables dialogue expiry.
func (s *MemoryStore) SweepExpiredDialogueSessions(now time.Time, timeout time.Duration) int {
	if timeout <= 0 {
		return 0
	}

	s.mu.RLock()
	var candidates []string
	for id, session := range s.dialogues {
		if now.Sub(session.LastActiveAt) > timeout {
			candidates = append(candidates, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range candidates {
		unlock := s.LockDialogue(id)
		s.mu.Lock()
		if session, ok := s.dialogues[id]; ok && now.Sub(session.LastActiveAt) > timeout {
			delete(s.dialogues, id)
			removed++
		}
		s.mu.Unlock()
		unlock()
	}
	return removed
}

// Stats returns current session counts.
func (s *MemoryStore) Stats() SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := SessionStats{
		MenuSessions:     len(s.menus),
		DialogueSessions: len(s.dialogues),
	}
	for _, d := range s.dialogues {
		stats.DialogueTurns += len(d.Turns)
	}
	return stats
}
