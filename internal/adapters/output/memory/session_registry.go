package memory

import (
	"hash/fnv"
	"sync"
	"time"

	"localledger/internal/domain"
	"localledger/internal/ports/output"
)

// Compile-time check to ensure SessionRegistry implements the port
var _ output.SessionRegistry = (*SessionRegistry)(nil)

const shardCount = 16

type shard struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// SessionRegistry struct - Output adapter for in-memory session storage.
// Sessions are spread over fixed shards keyed by a hash of the user id, so
// different users never contend on one lock. Expired sessions are evicted
// lazily at lookup and in bulk by Sweep.
type SessionRegistry struct {
	shards      [shardCount]*shard
	idleTimeout time.Duration
}

// NewSessionRegistry creates a sharded in-memory session registry.
// idleTimeout: duration after which an untouched session expires.
func NewSessionRegistry(idleTimeout time.Duration) *SessionRegistry {
	r := &SessionRegistry{idleTimeout: idleTimeout}
	for i := range r.shards {
		r.shards[i] = &shard{sessions: make(map[string]*domain.Session)}
	}
	return r
}

func (r *SessionRegistry) shardFor(userID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

// Get retrieves the user's session. A session past the idle timeout is
// deleted and reported absent (lazy cleanup); a live session has its
// activity timestamp refreshed.
func (r *SessionRegistry) Get(userID string) *domain.Session {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[userID]
	if !exists {
		return nil
	}

	now := time.Now()
	if session.Expired(now, r.idleTimeout) {
		delete(s.sessions, userID)
		return nil
	}

	session.Touch(now)
	return session
}

// Start creates a session for the user, failing with ErrSessionActive when
// a live one already exists. No silent overwrite.
func (r *SessionRegistry) Start(userID string, flow domain.FlowKind, step domain.Step, data domain.Accumulator) (*domain.Session, error) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.sessions[userID]; exists {
		if !existing.Expired(time.Now(), r.idleTimeout) {
			return nil, domain.ErrSessionActive
		}
		delete(s.sessions, userID)
	}

	session := domain.NewSession(userID, flow, step, data)
	s.sessions[userID] = session
	return session, nil
}

// Update applies a state transition to the existing session and refreshes
// its activity timestamp. Fails with ErrNoSession when absent.
func (r *SessionRegistry) Update(userID string, mutate func(*domain.Session)) error {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[userID]
	if !exists {
		return domain.ErrNoSession
	}

	mutate(session)
	session.Touch(time.Now())
	return nil
}

// End removes the user's session. Idempotent.
func (r *SessionRegistry) End(userID string) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Sweep evicts sessions idle past the timeout and returns the eviction
// count. Meant for a periodic tick, not the request path.
func (r *SessionRegistry) Sweep(now time.Time) int {
	evicted := 0
	for _, s := range r.shards {
		s.mu.Lock()
		for userID, session := range s.sessions {
			if session.Expired(now, r.idleTimeout) {
				delete(s.sessions, userID)
				evicted++
			}
		}
		s.mu.Unlock()
	}
	return evicted
}
