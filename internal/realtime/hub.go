package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"teamchat/internal/logger"
)

type EventType string

const (
	EventMessageCreated      EventType = "message.created"
	EventMessageUpdated      EventType = "message.updated"
	EventConversationCleared EventType = "conversation.cleared"
	EventTaskCreated         EventType = "task.created"
	EventTaskUpdated         EventType = "task.updated"
	EventTaskDeleted         EventType = "task.deleted"
	EventTeamUpdated         EventType = "team.updated"
)

// Event tells subscribers of a team that something changed; clients refetch.
type Event struct {
	Type   EventType `json:"type"`
	TeamID int64     `json:"team_id"`
	ID     int64     `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Hub fans events out to local subscribers. With a Redis client, events
// travel through a pub/sub channel so every process sees them.
type Hub struct {
	mu      sync.RWMutex
	teams   map[int64]map[chan Event]struct{}
	client  *redis.Client
	channel string
}

func NewHub(client *redis.Client, channel string) *Hub {
	if channel == "" {
		channel = "teamchat:events"
	}
	return &Hub{
		teams:   make(map[int64]map[chan Event]struct{}),
		client:  client,
		channel: channel,
	}
}

// Subscribe registers a buffered channel for teamID. The returned func
// unregisters it.
func (h *Hub) Subscribe(teamID int64) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.teams[teamID] == nil {
		h.teams[teamID] = make(map[chan Event]struct{})
	}
	h.teams[teamID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.teams[teamID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.teams, teamID)
				}
			}
			close(ch)
		})
	}
}

func (h *Hub) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if h.client == nil {
		h.broadcast(ev)
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := h.client.Publish(ctx, h.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// broadcast never blocks; a subscriber with a full buffer misses the event.
func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.teams[ev.TeamID] {
		select {
		case ch <- ev:
		default:
			slog.Debug("dropping event for slow subscriber", "team_id", ev.TeamID, "type", ev.Type)
		}
	}
}

// Run relays the Redis channel into local subscribers until ctx ends.
// It returns immediately when the hub has no Redis client.
func (h *Hub) Run(ctx context.Context) error {
	if h.client == nil {
		return nil
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "teamchat.realtime.hub"})

	sub := h.client.Subscribe(ctx, h.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", h.channel, err)
	}
	slog.InfoContext(ctx, "realtime hub subscribed", "channel", h.channel)

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				slog.WarnContext(ctx, "ignoring malformed event", "error", err)
				continue
			}
			h.broadcast(ev)
		}
	}
}
