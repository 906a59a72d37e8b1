package session

import "errors"

// ErrUnavailable wraps failures of the backing store itself, as
// opposed to a session simply not existing yet.
var ErrUnavailable = errors.New("session store unavailable")

// Store persists session contexts keyed by session id.
//
// Load never fails because a session is missing, expired or corrupt;
// those cases yield a fresh empty context so a stale database can not
// block a user from starting over.
type Store interface {
	Load(sessionID string) (*Context, error)
	Save(sessionID string, ctx *Context) error
	Delete(sessionID string) error
	Close() error
}
