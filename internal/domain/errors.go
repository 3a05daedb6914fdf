package domain

import "errors"

var (
	// ErrSessionActive indicates a start was attempted while the user
	// already has a session. The router checks presence before starting a
	// flow, so hitting this is a core bug, not a user condition.
	ErrSessionActive = errors.New("session already active for user")

	// ErrNoSession indicates an update was attempted with no session.
	ErrNoSession = errors.New("no active session for user")

	// ErrResolverUnavailable indicates a media resolver could not be
	// reached or timed out.
	ErrResolverUnavailable = errors.New("media resolver unavailable")
)
