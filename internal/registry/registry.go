package registry

import (
	"sync"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/session"
)

type entry struct {
	client      *session.Client
	displayName string
}

// Registry maps logical user ids to their live connection and back. A later
// registration for the same user silently supersedes the earlier one; the
// superseded connection stays open but is no longer discoverable by user id
// until its own disconnect. Known limitation of the multi-tab case.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]entry
	byConn map[string]string // connID -> userID
}

func New() *Registry {
	return &Registry{
		byUser: make(map[string]entry),
		byConn: make(map[string]string),
	}
}

// Register upserts the user -> connection mapping and the reverse index.
func (r *Registry) Register(c *session.Client, userID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byUser[userID]; ok && old.client.ConnID != c.ConnID {
		delete(r.byConn, old.client.ConnID)
	}
	r.byUser[userID] = entry{client: c, displayName: displayName}
	r.byConn[c.ConnID] = userID
}

// Resolve returns the live connection for a user. Absence is a normal
// branch (user offline), not an error.
func (r *Registry) Resolve(userID string) (*session.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUser[userID]
	if !ok {
		return nil, false
	}
	return e.client, true
}

// UserOf is the reverse lookup used by the disconnect cascade.
func (r *Registry) UserOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.byConn[connID]
	return userID, ok
}

func (r *Registry) DisplayNameOf(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUser[userID]
	if !ok {
		return "", false
	}
	return e.displayName, true
}

// Unregister removes both directions. No-op if the connection was never
// registered or has already been superseded.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	if e, ok := r.byUser[userID]; ok && e.client.ConnID == connID {
		delete(r.byUser, userID)
	}
}
