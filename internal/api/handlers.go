package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/call"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/metrics"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/mirror"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/models"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/presence"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/registry"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/relay"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/session"
	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/utils"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Handlers struct {
	log      *utils.Logger
	registry *registry.Registry
	hub      *session.Hub
	presence *presence.Coordinator
	calls    *call.Coordinator
	relay    *relay.Relay
	mirror   *mirror.Mirror
	webrtc   webrtc.Configuration
}

// NewHandlers wires the engine together. m may be nil when no Redis is
// configured; cross-instance mirroring is then disabled.
func NewHandlers(log *utils.Logger, m *mirror.Mirror) *Handlers {
	reg := registry.New()
	hub := session.NewHub()
	h := &Handlers{
		log:      log,
		registry: reg,
		hub:      hub,
		presence: presence.NewCoordinator(hub, reg),
		calls:    call.NewCoordinator(reg),
		relay:    relay.New(),
		mirror:   m,
		webrtc:   utils.GetWebRTCConfig(),
	}
	if m != nil {
		m.SetUserLeftHandler(h.handleRemoteLeave)
	}
	return h
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// RoomStatus reports the member count and user list of one room.
func (h *Handlers) RoomStatus(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	room, ok := h.hub.Get(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	members := room.Members()
	users := make([]string, 0, len(members))
	for _, connID := range members {
		if userID, ok := h.registry.UserOf(connID); ok {
			users = append(users, userID)
		} else {
			users = append(users, connID)
		}
	}
	writeJSON(w, models.RoomStatus{ID: roomID, UserCount: len(members), Users: users})
}

// WebRTCConfig hands clients the ICE servers to use before signaling.
func (h *Handlers) WebRTCConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]interface{}{"iceServers": h.webrtc.ICEServers})
}

// GatewayWS is the single per-tab WebSocket. Every event is handled to
// completion against the in-memory tables before the next read; a read
// error triggers the full disconnect cascade.
func (h *Handlers) GatewayWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := session.NewClient(conn)
	h.relay.Add(client)
	metrics.SetConnections(h.relay.Count())
	defer h.disconnect(client)

	for {
		var frame models.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		h.Dispatch(client, frame)
	}
}

// Dispatch routes one inbound frame. Exported so tests can drive the event
// loop without a live socket.
func (h *Handlers) Dispatch(client *session.Client, frame models.Frame) {
	metrics.CountEvent(frame.Type)

	switch frame.Type {
	case "register":
		var req models.RegisterRequest
		unmarshal(frame.Data, &req)
		if req.UserID == "" {
			h.log.Error("register without userId", "conn", client.ConnID)
			return
		}
		h.registry.Register(client, req.UserID, req.UserName)

	case "joinDocument":
		var req models.JoinDocumentRequest
		unmarshal(frame.Data, &req)
		if req.DocumentID == "" {
			h.log.Error("joinDocument without documentId", "conn", client.ConnID)
			return
		}
		h.presence.JoinDocument(req.DocumentID, client)
		metrics.SetRooms(h.hub.RoomCount())
		h.publish("user-joined", req.DocumentID, client.ConnID)

	case "leaveDocument":
		var req models.LeaveDocumentRequest
		unmarshal(frame.Data, &req)
		if req.DocumentID == "" {
			return
		}
		h.presence.LeaveDocument(req.DocumentID, client)
		metrics.SetRooms(h.hub.RoomCount())
		h.publish("user-left", req.DocumentID, client.ConnID)

	case "updateCursor":
		var req models.CursorUpdateRequest
		unmarshal(frame.Data, &req)
		if req.DocumentID == "" {
			return
		}
		h.presence.UpdateCursor(req.DocumentID, client, req.Cursor)

	case "updateDocument":
		var req models.DocumentUpdateRequest
		unmarshal(frame.Data, &req)
		if req.DocumentID == "" {
			h.log.Error("updateDocument without documentId", "conn", client.ConnID)
			return
		}
		h.presence.RelayContentChange(req.DocumentID, client, req)

	case "call-user":
		target := stringData(frame.Data)
		if target == "" {
			h.log.Error("call-user without target", "conn", client.ConnID)
			return
		}
		if err := h.calls.Initiate(client, target); err != nil {
			client.Send(models.Frame{
				Type: "call-unavailable",
				Data: models.CallUnavailable{UserID: target},
			})
			return
		}
		metrics.SetCalls(h.calls.ActiveCount())
		h.publish("call-started", "", client.ConnID)

	case "answer-call":
		target := stringData(frame.Data)
		if target == "" {
			return
		}
		h.calls.Answer(client, target)

	case "end-call":
		h.calls.End(client)
		metrics.SetCalls(h.calls.ActiveCount())
		h.publish("call-ended", "", client.ConnID)

	case "signal":
		var req models.SignalRequest
		unmarshal(frame.Data, &req)
		if req.Target == "" {
			h.log.Error("signal without target", "conn", client.ConnID)
			return
		}
		h.calls.RelaySignal(req.Target, req.Signal)

	case "folderCreated", "fileCreated":
		h.relay.Broadcast(frame, client.ConnID)

	default:
		client.Send(models.Frame{Type: "error", Data: "unknown_type"})
	}
}

// disconnect runs the cleanup cascade: call teardown first (it needs the
// registry entry), then room removals with peer notifications, then the
// global tables. Sequential and local; partial completion is impossible.
func (h *Handlers) disconnect(client *session.Client) {
	h.calls.HandleDisconnect(client.ConnID)
	affected := h.presence.DisconnectCleanup(client)
	h.relay.Remove(client.ConnID)
	for _, roomID := range affected {
		h.publish("user-left", roomID, client.ConnID)
	}
	h.registry.Unregister(client.ConnID)

	metrics.SetConnections(h.relay.Count())
	metrics.SetRooms(h.hub.RoomCount())
	metrics.SetCalls(h.calls.ActiveCount())
}

// handleRemoteLeave reacts to a sibling instance reporting a departure: if
// the user still occupies a local room copy, drop them and tell the rest.
func (h *Handlers) handleRemoteLeave(roomID, userID string) {
	c, ok := h.registry.Resolve(userID)
	if !ok {
		return
	}
	room, ok := h.hub.Get(roomID)
	if !ok || !room.Has(c.ConnID) {
		return
	}
	h.presence.LeaveDocument(roomID, c)
	metrics.SetRooms(h.hub.RoomCount())
}

// publish mirrors a presence event to sibling instances, best-effort.
func (h *Handlers) publish(eventType, roomID, connID string) {
	if h.mirror == nil {
		return
	}
	userID, ok := h.registry.UserOf(connID)
	if !ok {
		userID = connID
	}
	if err := h.mirror.Publish(eventType, roomID, userID); err != nil {
		h.log.Error("publish presence event", "type", eventType, "error", err.Error())
	}
}

// unmarshal re-decodes a frame's loosely-typed data into a payload struct.
func unmarshal(in interface{}, out interface{}) {
	b, _ := json.Marshal(in)
	_ = json.Unmarshal(b, out)
}

func stringData(v interface{}) string {
	s, _ := v.(string)
	return s
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
