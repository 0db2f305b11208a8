package presence

import (
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/models"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/registry"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/session"
)

// Coordinator layers per-room presence semantics on top of the Hub: seeding
// member state on join, notifying peers on join/leave/cursor moves, and
// relaying content changes. Content relay is last-write-wins; the gateway
// never arbitrates conflicting concurrent edits.
type Coordinator struct {
	hub      *session.Hub
	registry *registry.Registry
}

func NewCoordinator(hub *session.Hub, reg *registry.Registry) *Coordinator {
	return &Coordinator{hub: hub, registry: reg}
}

// JoinDocument adds the client to the document room and announces the join
// to every member, the joiner included (the count doubles as the join ack).
func (p *Coordinator) JoinDocument(docID string, c *session.Client) int {
	count := p.hub.Join(docID, c)
	p.hub.Broadcast(docID, models.Frame{
		Type: "userJoined",
		Data: models.UserJoined{UserID: p.userOf(c.ConnID), UsersCount: count},
	}, "")
	return count
}

// LeaveDocument removes the member. Remaining members get a userLeft; if
// the room died with this member there is nobody left to notify.
func (p *Coordinator) LeaveDocument(docID string, c *session.Client) {
	if left := p.hub.Leave(docID, c.ConnID); left > 0 {
		p.hub.Broadcast(docID, models.Frame{
			Type: "userLeft",
			Data: models.UserLeft{UserID: p.userOf(c.ConnID)},
		}, "")
	}
}

// UpdateCursor stores the member's cursor and tells every other member.
// Silently ignored when the connection is not a member of the room.
func (p *Coordinator) UpdateCursor(docID string, c *session.Client, cursor models.Cursor) {
	room, ok := p.hub.Get(docID)
	if !ok || !room.SetCursor(c.ConnID, cursor) {
		return
	}
	room.Broadcast(models.Frame{
		Type: "cursorUpdated",
		Data: models.CursorUpdated{UserID: p.userOf(c.ConnID), Cursor: cursor},
	}, c.ConnID)
}

// RelayContentChange forwards an opaque change set to every other member.
func (p *Coordinator) RelayContentChange(docID string, c *session.Client, update models.DocumentUpdateRequest) {
	p.hub.Broadcast(docID, models.Frame{
		Type: "documentUpdated",
		Data: models.DocumentUpdated{
			UserID:  p.userOf(c.ConnID),
			Changes: update.Changes,
			Version: update.Version,
		},
	}, c.ConnID)
}

// DisconnectCleanup removes the connection from every room, notifies the
// survivors of each, and returns the affected room ids. Room ids are
// snapshotted by the hub before mutation.
func (p *Coordinator) DisconnectCleanup(c *session.Client) []string {
	userID := p.userOf(c.ConnID)
	affected := p.hub.RemoveEverywhere(c.ConnID)
	for _, docID := range affected {
		p.hub.Broadcast(docID, models.Frame{
			Type: "userLeft",
			Data: models.UserLeft{UserID: userID},
		}, "")
	}
	return affected
}

// userOf falls back to the connection id for sockets that never registered,
// so presence events always carry a stable identity.
func (p *Coordinator) userOf(connID string) string {
	if userID, ok := p.registry.UserOf(connID); ok {
		return userID
	}
	return connID
}
