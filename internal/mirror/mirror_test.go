package mirror

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/utils"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func TestPublishReachesSiblingInstance(t *testing.T) {
	mr := setupTestRedis(t)
	log := utils.NewNopLogger()

	publisher := New(mr.Addr(), log)
	defer publisher.Close()
	subscriber := New(mr.Addr(), log)
	defer subscriber.Close()

	if publisher.InstanceID() == subscriber.InstanceID() {
		t.Fatalf("instances must have distinct ids")
	}

	type leave struct{ roomID, userID string }
	got := make(chan leave, 1)
	subscriber.SetUserLeftHandler(func(roomID, userID string) {
		got <- leave{roomID, userID}
	})
	subscriber.Start()

	// Give the subscriber a moment to attach before publishing.
	deadline := time.After(2 * time.Second)
	for {
		if err := publisher.Publish("user-left", "doc1", "alice"); err != nil {
			t.Fatalf("publish: %v", err)
		}
		select {
		case l := <-got:
			if l.roomID != "doc1" || l.userID != "alice" {
				t.Fatalf("unexpected event: %#v", l)
			}
			return
		case <-time.After(50 * time.Millisecond):
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for presence event")
		default:
		}
	}
}

func TestOwnEventsAreIgnored(t *testing.T) {
	mr := setupTestRedis(t)
	log := utils.NewNopLogger()

	m := New(mr.Addr(), log)
	defer m.Close()

	called := make(chan struct{}, 1)
	m.SetUserLeftHandler(func(roomID, userID string) {
		called <- struct{}{}
	})
	m.Start()
	time.Sleep(100 * time.Millisecond)

	if err := m.Publish("user-left", "doc1", "alice"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-called:
		t.Fatalf("an instance must ignore its own events")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNonLeaveEventsDoNotTriggerHandler(t *testing.T) {
	mr := setupTestRedis(t)
	log := utils.NewNopLogger()

	publisher := New(mr.Addr(), log)
	defer publisher.Close()
	subscriber := New(mr.Addr(), log)
	defer subscriber.Close()

	called := make(chan struct{}, 1)
	subscriber.SetUserLeftHandler(func(roomID, userID string) {
		called <- struct{}{}
	})
	subscriber.Start()
	time.Sleep(100 * time.Millisecond)

	if err := publisher.Publish("user-joined", "doc1", "alice"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-called:
		t.Fatalf("user-joined must not invoke the leave handler")
	case <-time.After(300 * time.Millisecond):
	}
}
