package session

import (
	"sync"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/models"
)

// member is the per-(room, connection) ephemeral state. The cursor is nil
// until the first cursor update.
type member struct {
	client *Client
	cursor *models.Cursor
}

// Room holds the current members of one collaborative context. Rooms never
// outlive their last member; the Hub deletes a room the moment it empties.
type Room struct {
	ID      string
	mu      sync.Mutex
	members map[string]*member
}

func NewRoom(id string) *Room {
	return &Room{ID: id, members: make(map[string]*member)}
}

// Join adds the client and returns the member count. Joining twice with the
// same connection keeps a single membership.
func (r *Room) Join(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[c.ConnID]; !ok {
		r.members[c.ConnID] = &member{client: c}
	}
	return len(r.members)
}

// Leave removes the connection and returns the remaining count. No-op if it
// was not a member.
func (r *Room) Leave(connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, connID)
	return len(r.members)
}

// Members returns a snapshot of the member connection ids.
func (r *Room) Members() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	return out
}

func (r *Room) Has(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[connID]
	return ok
}

// SetCursor updates the member's cursor. Returns false without touching
// anything if the connection is not a member.
func (r *Room) SetCursor(connID string, cursor models.Cursor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[connID]
	if !ok {
		return false
	}
	m.cursor = &cursor
	return true
}

// Broadcast sends the frame to every member except excludeConnID (pass ""
// to exclude nobody). Recipients are snapshotted under the lock and written
// to after it is released.
func (r *Room) Broadcast(frame models.Frame, excludeConnID string) {
	r.mu.Lock()
	targets := make([]*Client, 0, len(r.members))
	for id, m := range r.members {
		if id == excludeConnID {
			continue
		}
		targets = append(targets, m.client)
	}
	r.mu.Unlock()

	for _, c := range targets {
		c.Send(frame)
	}
}
