package relay

import (
	"testing"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/models"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/session"
)

type frameCapture struct {
	frames []models.Frame
}

func (c *frameCapture) hook(frame models.Frame) { c.frames = append(c.frames, frame) }

func hookedClient() (*session.Client, *frameCapture) {
	c := session.NewClient(nil)
	capture := &frameCapture{}
	c.SetSendHook(capture.hook)
	return c, capture
}

func TestBroadcastReachesAllButSender(t *testing.T) {
	r := New()
	sender, senderCapture := hookedClient()
	peer1, peer1Capture := hookedClient()
	peer2, peer2Capture := hookedClient()
	r.Add(sender)
	r.Add(peer1)
	r.Add(peer2)

	r.Broadcast(models.Frame{Type: "folderCreated", Data: "payload"}, sender.ConnID)

	if len(senderCapture.frames) != 0 {
		t.Fatalf("sender must not receive its own broadcast")
	}
	for name, capture := range map[string]*frameCapture{"peer1": peer1Capture, "peer2": peer2Capture} {
		if len(capture.frames) != 1 || capture.frames[0].Type != "folderCreated" {
			t.Fatalf("expected %s to receive the event, got %#v", name, capture.frames)
		}
	}
}

func TestBroadcastWithoutExclusion(t *testing.T) {
	r := New()
	a, aCapture := hookedClient()
	r.Add(a)

	r.Broadcast(models.Frame{Type: "fileCreated"}, "")

	if len(aCapture.frames) != 1 {
		t.Fatalf("expected delivery to every connection")
	}
}

func TestRemoveStopsDelivery(t *testing.T) {
	r := New()
	a, aCapture := hookedClient()
	r.Add(a)
	r.Remove(a.ConnID)

	r.Broadcast(models.Frame{Type: "fileCreated"}, "")

	if len(aCapture.frames) != 0 {
		t.Fatalf("removed connection must not receive broadcasts")
	}
	if r.Count() != 0 {
		t.Fatalf("expected empty relay")
	}
}
