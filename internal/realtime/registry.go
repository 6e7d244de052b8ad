package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps a user to their single live push channel. Last connection
// wins: registering again for the same user overwrites the previous mapping,
// which is how a reconnecting tab takes over without explicit multiplexing.
type Registry interface {
	Register(userID uuid.UUID, channelID string)
	Unregister(userID uuid.UUID, channelID string)
	Lookup(userID uuid.UUID) (string, bool)
	OnlineIDs() []uuid.UUID
}

// connectionMap is the process-local Registry. State is rebuilt from zero on
// restart; presence is best-effort, not authoritative.
type connectionMap struct {
	mu       sync.RWMutex
	channels map[uuid.UUID]string
}

func NewRegistry() Registry {
	return &connectionMap{channels: make(map[uuid.UUID]string)}
}

func (m *connectionMap) Register(userID uuid.UUID, channelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[userID] = channelID
}

// Unregister removes the mapping only if it still points at channelID. A
// disconnect for a connection that has already been replaced must not evict
// the newer mapping.
func (m *connectionMap) Unregister(userID uuid.UUID, channelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.channels[userID] == channelID {
		delete(m.channels, userID)
	}
}

func (m *connectionMap) Lookup(userID uuid.UUID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.channels[userID]
	return ch, ok
}

func (m *connectionMap) OnlineIDs() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.channels))
	for id := range m.channels {
		ids = append(ids, id)
	}
	return ids
}
