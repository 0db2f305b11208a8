package registry

import (
	"testing"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/session"
)

func TestRegisterAndResolve(t *testing.T) {
	reg := New()
	c := session.NewClient(nil)

	reg.Register(c, "alice", "Alice")

	got, ok := reg.Resolve("alice")
	if !ok || got.ConnID != c.ConnID {
		t.Fatalf("expected alice's connection, got %v %v", got, ok)
	}
	userID, ok := reg.UserOf(c.ConnID)
	if !ok || userID != "alice" {
		t.Fatalf("expected reverse lookup to yield alice, got %q %v", userID, ok)
	}
	name, ok := reg.DisplayNameOf("alice")
	if !ok || name != "Alice" {
		t.Fatalf("expected display name Alice, got %q %v", name, ok)
	}
}

func TestResolveUnknownUser(t *testing.T) {
	reg := New()
	if _, ok := reg.Resolve("nobody"); ok {
		t.Fatalf("expected not-found for unknown user")
	}
	if _, ok := reg.UserOf("no-conn"); ok {
		t.Fatalf("expected not-found for unknown connection")
	}
}

func TestReRegistrationSupersedesOldConnection(t *testing.T) {
	reg := New()
	old := session.NewClient(nil)
	fresh := session.NewClient(nil)

	reg.Register(old, "alice", "Alice")
	reg.Register(fresh, "alice", "Alice")

	got, ok := reg.Resolve("alice")
	if !ok || got.ConnID != fresh.ConnID {
		t.Fatalf("expected the newer connection to win")
	}
	// The superseded connection is no longer discoverable either way.
	if _, ok := reg.UserOf(old.ConnID); ok {
		t.Fatalf("old connection should have been dropped from the reverse index")
	}
}

func TestUnregisterRemovesBothDirections(t *testing.T) {
	reg := New()
	c := session.NewClient(nil)
	reg.Register(c, "alice", "Alice")

	reg.Unregister(c.ConnID)

	if _, ok := reg.Resolve("alice"); ok {
		t.Fatalf("expected alice to be gone")
	}
	if _, ok := reg.UserOf(c.ConnID); ok {
		t.Fatalf("expected reverse entry to be gone")
	}
	// No-op on absence.
	reg.Unregister(c.ConnID)
}

func TestUnregisterSupersededConnectionKeepsNewMapping(t *testing.T) {
	reg := New()
	old := session.NewClient(nil)
	fresh := session.NewClient(nil)
	reg.Register(old, "alice", "Alice")
	reg.Register(fresh, "alice", "Alice")

	// The old tab finally disconnects; alice's new mapping must survive.
	reg.Unregister(old.ConnID)

	got, ok := reg.Resolve("alice")
	if !ok || got.ConnID != fresh.ConnID {
		t.Fatalf("expected alice to stay registered via the newer connection")
	}
}

func TestRegisterSameConnectionTwiceUpdatesName(t *testing.T) {
	reg := New()
	c := session.NewClient(nil)
	reg.Register(c, "alice", "Alice")
	reg.Register(c, "alice", "Alice L.")

	name, _ := reg.DisplayNameOf("alice")
	if name != "Alice L." {
		t.Fatalf("expected updated display name, got %q", name)
	}
}
