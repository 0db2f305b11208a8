package call

import (
	"errors"
	"sync"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/models"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/registry"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/session"
)

// ErrPeerUnavailable means the callee has no live registered connection.
// Reported to the caller only; never fatal.
var ErrPeerUnavailable = errors.New("peer unavailable")

type State string

const (
	StateRinging State = "ringing"
	StateActive  State = "active"
)

// Session is one pending or in-progress 1:1 call. There is at most one
// session per unordered user pair, and at most one per user.
type Session struct {
	CallerID string
	CalleeID string
	State    State
}

// Coordinator owns the call session table. It resolves logical user ids to
// deliverable connections through the registry but never mutates it.
type Coordinator struct {
	registry *registry.Registry
	mu       sync.Mutex
	sessions map[string]*Session // keyed by unordered pair
	byUser   map[string]string   // userID -> pair key
}

func NewCoordinator(reg *registry.Registry) *Coordinator {
	return &Coordinator{
		registry: reg,
		sessions: make(map[string]*Session),
		byUser:   make(map[string]string),
	}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Initiate rings calleeUserID on behalf of the caller's connection. A
// second initiation for the same pair supersedes the first session without
// notifying anyone, mirroring the historical behavior.
func (c *Coordinator) Initiate(caller *session.Client, calleeUserID string) error {
	callerID, ok := c.registry.UserOf(caller.ConnID)
	if !ok {
		return ErrPeerUnavailable
	}
	callee, ok := c.registry.Resolve(calleeUserID)
	if !ok {
		return ErrPeerUnavailable
	}

	c.mu.Lock()
	// A new initiation supersedes whatever session either party was in;
	// the superseded session vanishes without notification.
	c.dropLocked(callerID)
	c.dropLocked(calleeUserID)
	key := pairKey(callerID, calleeUserID)
	c.sessions[key] = &Session{CallerID: callerID, CalleeID: calleeUserID, State: StateRinging}
	c.byUser[callerID] = key
	c.byUser[calleeUserID] = key
	c.mu.Unlock()

	fromName, _ := c.registry.DisplayNameOf(callerID)
	callee.Send(models.Frame{
		Type: "incoming-call",
		Data: models.IncomingCall{From: callerID, FromName: fromName},
	})
	return nil
}

// Answer transitions the pair's session from ringing to active and tells
// the caller. Stale or duplicate answers are tolerated as no-ops.
func (c *Coordinator) Answer(callee *session.Client, callerUserID string) {
	calleeID, ok := c.registry.UserOf(callee.ConnID)
	if !ok {
		return
	}

	c.mu.Lock()
	s, ok := c.sessions[pairKey(callerUserID, calleeID)]
	if !ok || s.State != StateRinging {
		c.mu.Unlock()
		return
	}
	s.State = StateActive
	c.mu.Unlock()

	if caller, ok := c.registry.Resolve(callerUserID); ok {
		caller.Send(models.Frame{Type: "call-answered"})
	}
}

// RelaySignal forwards an opaque negotiation payload to the target user.
// Unresolvable targets drop the signal silently; the peer layer retries.
func (c *Coordinator) RelaySignal(targetUserID string, signal interface{}) {
	if target, ok := c.registry.Resolve(targetUserID); ok {
		target.Send(models.Frame{Type: "signal", Data: signal})
	}
}

// End tears down the session this connection participates in and notifies
// both parties, the initiator included. No-op when the connection has no
// session.
func (c *Coordinator) End(conn *session.Client) {
	userID, ok := c.registry.UserOf(conn.ConnID)
	if !ok {
		return
	}
	c.endForUser(userID)
}

// HandleDisconnect runs the same teardown during the disconnect cascade,
// before the registry entry is removed.
func (c *Coordinator) HandleDisconnect(connID string) {
	if userID, ok := c.registry.UserOf(connID); ok {
		c.endForUser(userID)
	}
}

// dropLocked removes the user's current session, if any, without sending
// call-ended. Caller holds c.mu.
func (c *Coordinator) dropLocked(userID string) {
	key, ok := c.byUser[userID]
	if !ok {
		return
	}
	s := c.sessions[key]
	delete(c.sessions, key)
	delete(c.byUser, s.CallerID)
	delete(c.byUser, s.CalleeID)
}

func (c *Coordinator) endForUser(userID string) {
	c.mu.Lock()
	key, ok := c.byUser[userID]
	if !ok {
		c.mu.Unlock()
		return
	}
	s := c.sessions[key]
	delete(c.sessions, key)
	delete(c.byUser, s.CallerID)
	delete(c.byUser, s.CalleeID)
	c.mu.Unlock()

	ended := models.Frame{Type: "call-ended"}
	if caller, ok := c.registry.Resolve(s.CallerID); ok {
		caller.Send(ended)
	}
	if callee, ok := c.registry.Resolve(s.CalleeID); ok {
		callee.Send(ended)
	}
}

// SessionOf reports the session a user participates in, if any.
func (c *Coordinator) SessionOf(userID string) (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, ok := c.byUser[userID]
	if !ok {
		return Session{}, false
	}
	return *c.sessions[key], true
}

func (c *Coordinator) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
