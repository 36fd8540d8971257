package core

import (
	"sync"
	"time"

	"triage-chatbot/pkg"
)

// sessionEntry pairs a CaseContext with the lock that serializes its turns.
type sessionEntry struct {
	mu   sync.Mutex
	c    *CaseContext
	last time.Time
}

// ConversationStore owns every CaseContext in the process, keyed by session
// id.  Lookup and creation are atomic, so two concurrent first messages for
// the same new session resolve to a single CaseContext.  Each session has
// its own lock held for the duration of one turn; cross-session traffic is
// unaffected.
//
// Entries are never evicted.  The TTL is recorded per entry as the policy
// hook for a future sweep but no sweeper runs yet; for now state lives until
// the process exits.
type ConversationStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
}

// NewConversationStore creates an empty store.  ttl is advisory; zero means
// no expiry.
func NewConversationStore(ttl time.Duration) *ConversationStore {
	return &ConversationStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
	}
}

// Acquire returns the CaseContext for sessionID with its turn lock held,
// creating the context from initialSymptoms if the session is new.  The
// returned release function must be called when the turn completes,
// including on error paths.  created reports whether this call founded the
// session.
//
// The lock stays held across the language-model call; callers bound that
// call with a timeout so hold time is finite.
func (s *ConversationStore) Acquire(sessionID, initialSymptoms string) (c *CaseContext, release func(), created bool) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{c: NewCaseContext(sessionID, initialSymptoms)}
		s.sessions[sessionID] = entry
		created = true
	}
	s.mu.Unlock()

	entry.mu.Lock()
	entry.last = time.Now()
	return entry.c, entry.mu.Unlock, created
}

// Snapshot returns a read-only view of the session's triage state, or false
// if the session does not exist.  It takes the session lock briefly so it
// never observes a half-applied turn.
func (s *ConversationStore) Snapshot(sessionID string) (pkg.CaseSnapshot, bool) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return pkg.CaseSnapshot{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.c.Snapshot(), true
}

// Len reports the number of live sessions.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
