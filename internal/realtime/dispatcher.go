package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Dispatcher is what the services see: fire-and-forget delivery to a set of
// users, or to everyone. Offline targets are skipped silently; there is no
// queue and no retry.
type Dispatcher interface {
	Notify(userIDs []uuid.UUID, event string, payload any)
	Broadcast(event string, payload any)
}

// sender is one live push channel. *Client implements it; tests substitute
// their own.
type sender interface {
	Send(frame []byte) bool
}

// Hub owns the registry and the channel table and implements Dispatcher.
// Attach/Detach keep the two in step: the presence broadcast is sequenced
// with the mutation under hub.mu so no client ever sees a stale snapshot
// ordered after a fresher one.
type Hub struct {
	registry Registry

	mu      sync.Mutex
	senders map[string]sender
}

func NewHub(registry Registry) *Hub {
	return &Hub{
		registry: registry,
		senders:  make(map[string]sender),
	}
}

// Attach registers a user's connection under a fresh channel id and fans out
// the updated online set to every connected channel.
func (h *Hub) Attach(userID uuid.UUID, s sender) string {
	channelID := uuid.NewString()
	h.mu.Lock()
	h.senders[channelID] = s
	h.registry.Register(userID, channelID)
	h.broadcastPresenceLocked()
	h.mu.Unlock()
	return channelID
}

// Detach drops the channel and unregisters the mapping. The compare-and-
// delete inside the registry keeps a late Detach for a replaced connection
// from evicting the newer one.
func (h *Hub) Detach(userID uuid.UUID, channelID string) {
	h.mu.Lock()
	delete(h.senders, channelID)
	h.registry.Unregister(userID, channelID)
	h.broadcastPresenceLocked()
	h.mu.Unlock()
}

func (h *Hub) Notify(userIDs []uuid.UUID, event string, payload any) {
	frame, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		slog.Error("notify marshal failed", "event", event, "error", err)
		return
	}
	for _, id := range userIDs {
		channelID, ok := h.registry.Lookup(id)
		if !ok {
			continue
		}
		h.mu.Lock()
		s := h.senders[channelID]
		h.mu.Unlock()
		if s != nil && !s.Send(frame) {
			slog.Warn("push channel full, frame dropped", "event", event, "user_id", id)
		}
	}
}

func (h *Hub) Broadcast(event string, payload any) {
	frame, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		slog.Error("broadcast marshal failed", "event", event, "error", err)
		return
	}
	h.mu.Lock()
	targets := make([]sender, 0, len(h.senders))
	for _, s := range h.senders {
		targets = append(targets, s)
	}
	h.mu.Unlock()
	for _, s := range targets {
		s.Send(frame)
	}
}

// broadcastPresenceLocked snapshots the online set and enqueues it on every
// channel. Caller holds h.mu, so the snapshot matches the mutation that
// triggered it.
func (h *Hub) broadcastPresenceLocked() {
	frame, err := json.Marshal(envelope{Event: EventOnlineUsers, Payload: h.registry.OnlineIDs()})
	if err != nil {
		slog.Error("presence marshal failed", "error", err)
		return
	}
	for _, s := range h.senders {
		s.Send(frame)
	}
}
