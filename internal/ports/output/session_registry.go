package output

import (
	"time"

	"localledger/internal/domain"
)

// SessionRegistry interface - Output port
// Owns creation, lookup, mutation, expiry and deletion of per-user dialogue
// sessions. Implementations must support safe concurrent access across
// different users without a global lock. The registry does not serialize
// turns for one user - the dialogue engine holds a per-user mutex around
// the whole turn.
type SessionRegistry interface {
	// Get returns the user's session, or nil when none exists. A session
	// past its idle timeout is evicted at lookup time and reported as
	// absent, so an expired session a sweep race lets through never serves
	// another turn.
	Get(userID string) *domain.Session

	// Start creates a session for the user. Returns ErrSessionActive when
	// one already exists; callers must explicitly end or replace first.
	Start(userID string, flow domain.FlowKind, step domain.Step, data domain.Accumulator) (*domain.Session, error)

	// Update applies a state transition to the existing session. Returns
	// ErrNoSession when the user has none.
	Update(userID string, mutate func(*domain.Session)) error

	// End removes the session unconditionally. Idempotent: ending an
	// absent session is a no-op.
	End(userID string)

	// Sweep removes sessions idle past the timeout and returns how many
	// were evicted. Called on a periodic tick, not from the request path.
	Sweep(now time.Time) int
}
