package relay

import (
	"sync"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/models"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/session"
)

// Relay tracks every live connection and fans structural events
// (folder/file created) out to all of them. No room scoping, no delivery
// guarantee beyond transport order per sender.
type Relay struct {
	mu      sync.Mutex
	clients map[string]*session.Client
}

func New() *Relay {
	return &Relay{clients: make(map[string]*session.Client)}
}

func (r *Relay) Add(c *session.Client) {
	r.mu.Lock()
	r.clients[c.ConnID] = c
	r.mu.Unlock()
}

func (r *Relay) Remove(connID string) {
	r.mu.Lock()
	delete(r.clients, connID)
	r.mu.Unlock()
}

func (r *Relay) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Broadcast delivers the frame to every connected client except
// excludeConnID (pass "" to deliver to everyone).
func (r *Relay) Broadcast(frame models.Frame, excludeConnID string) {
	r.mu.Lock()
	targets := make([]*session.Client, 0, len(r.clients))
	for id, c := range r.clients {
		if id == excludeConnID {
			continue
		}
		targets = append(targets, c)
	}
	r.mu.Unlock()

	for _, c := range targets {
		c.Send(frame)
	}
}
