package session

import (
	"sync"

	"peerprep/interview/internal/models"
)

// Store is the process-wide registry of live interview sessions. The
// store guards its own map; mutation of a session's contents is
// serialized by the per-session lock, not by the store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.InterviewSession
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*models.InterviewSession),
	}
}

// Put registers a new session. Returns false when the id is already
// live; the store never holds two entries for one id.
func (s *Store) Put(sess *models.InterviewSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.SessionID]; exists {
		return false
	}
	s.sessions[sess.SessionID] = sess
	return true
}

func (s *Store) Get(sessionID string) (*models.InterviewSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	return sess, ok
}

func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
