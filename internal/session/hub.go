package session

import (
	"sync"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/models"
)

// Hub manages all active rooms. It owns the room table exclusively; empty
// rooms are removed as part of the leave that emptied them.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*Room)} }

// Join adds the client to the room, creating it on first join, and returns
// the member count.
func (h *Hub) Join(roomID string, c *Client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[roomID]
	if !ok {
		r = NewRoom(roomID)
		h.rooms[roomID] = r
	}
	return r.Join(c)
}

// Leave removes the connection from the room and deletes the room if it
// emptied. Returns the remaining member count (0 when the room is gone or
// never existed).
func (h *Hub) Leave(roomID, connID string) int {
	h.mu.Lock()
	r, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return 0
	}
	left := r.Leave(connID)
	if left == 0 {
		delete(h.rooms, roomID)
	}
	h.mu.Unlock()
	return left
}

func (h *Hub) Get(roomID string) (*Room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[roomID]
	return r, ok
}

// Broadcast fans a frame out to the room's members, excluding
// excludeConnID when non-empty. Delivers to nobody if the room is gone.
func (h *Hub) Broadcast(roomID string, frame models.Frame, excludeConnID string) {
	if r, ok := h.Get(roomID); ok {
		r.Broadcast(frame, excludeConnID)
	}
}

// Members returns a snapshot of the room's member connection ids.
func (h *Hub) Members(roomID string) []string {
	r, ok := h.Get(roomID)
	if !ok {
		return nil
	}
	return r.Members()
}

func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// RemoveEverywhere removes the connection from every room it belongs to and
// returns the ids of the affected rooms. Room ids are snapshotted before any
// mutation so removals never race the scan.
func (h *Hub) RemoveEverywhere(connID string) []string {
	h.mu.Lock()
	affected := make([]string, 0, 2)
	for id, r := range h.rooms {
		if r.Has(connID) {
			affected = append(affected, id)
		}
	}
	h.mu.Unlock()

	for _, id := range affected {
		h.Leave(id, connID)
	}
	return affected
}
