package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/utils"
)

const channel = "realtime:presence"

// Event is the cross-instance presence notification published whenever a
// user joins or leaves a room, or a call starts or ends.
type Event struct {
	Type       string    `json:"type"` // "user-joined", "user-left", "call-started", "call-ended"
	RoomID     string    `json:"roomId,omitempty"`
	UserID     string    `json:"userId"`
	InstanceID string    `json:"instanceId"`
	Timestamp  time.Time `json:"timestamp"`
}

// Mirror fans presence events out to sibling gateway instances over Redis
// pub/sub. Publishing is best-effort: a dead Redis never affects the local
// engine. Each instance ignores its own events.
type Mirror struct {
	rdb        *redis.Client
	instanceID string
	log        *utils.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	onUserLeft func(roomID, userID string)
}

func New(redisAddr string, log *utils.Logger) *Mirror {
	ctx, cancel := context.WithCancel(context.Background())
	return &Mirror{
		rdb:        redis.NewClient(&redis.Options{Addr: redisAddr}),
		instanceID: uuid.New().String(),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (m *Mirror) InstanceID() string { return m.instanceID }

// SetUserLeftHandler installs the callback invoked when a sibling instance
// reports a user leaving a room. Must be set before Start.
func (m *Mirror) SetUserLeftHandler(fn func(roomID, userID string)) {
	m.onUserLeft = fn
}

// Start launches the subscriber loop.
func (m *Mirror) Start() {
	go m.subscribe()
}

func (m *Mirror) Close() {
	m.cancel()
	_ = m.rdb.Close()
}

// Publish sends a presence event to the channel, tagged with this
// instance's id.
func (m *Mirror) Publish(eventType, roomID, userID string) error {
	event := Event{
		Type:       eventType,
		RoomID:     roomID,
		UserID:     userID,
		InstanceID: m.instanceID,
		Timestamp:  time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal presence event: %w", err)
	}
	return m.rdb.Publish(m.ctx, channel, data).Err()
}

func (m *Mirror) subscribe() {
	pubsub := m.rdb.Subscribe(m.ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	m.log.Info("subscribed to presence events", "instance", m.instanceID)

	for {
		select {
		case <-m.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				m.log.Error("unmarshal presence event", "error", err.Error())
				continue
			}
			if event.InstanceID == m.instanceID {
				continue
			}
			m.handle(&event)
		}
	}
}

// handle applies an event from a sibling instance. Only user-left needs a
// local reaction: a user who migrated instances must be dropped from the
// room copy held here.
func (m *Mirror) handle(event *Event) {
	m.log.Debug("presence event", "type", event.Type, "user", event.UserID, "room", event.RoomID, "instance", event.InstanceID)
	if event.Type == "user-left" && m.onUserLeft != nil {
		m.onUserLeft(event.RoomID, event.UserID)
	}
}
