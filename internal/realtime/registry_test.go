package realtime

import (
	"testing"

	"github.com/google/uuid"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	if _, ok := r.Lookup(userID); ok {
		t.Fatal("lookup on empty registry should miss")
	}

	r.Register(userID, "ch-1")
	ch, ok := r.Lookup(userID)
	if !ok || ch != "ch-1" {
		t.Fatalf("Lookup = %q, %v; want ch-1, true", ch, ok)
	}
}

func TestRegisterLastConnectionWins(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	r.Register(userID, "ch-old")
	r.Register(userID, "ch-new")

	ch, ok := r.Lookup(userID)
	if !ok || ch != "ch-new" {
		t.Fatalf("Lookup = %q, %v; want ch-new, true", ch, ok)
	}
}

func TestUnregisterIgnoresStaleChannel(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	// Reconnect replaces the mapping, then the old connection's close
	// arrives late. It must not evict the live channel.
	r.Register(userID, "ch-old")
	r.Register(userID, "ch-new")
	r.Unregister(userID, "ch-old")

	ch, ok := r.Lookup(userID)
	if !ok || ch != "ch-new" {
		t.Fatalf("stale unregister evicted live channel: Lookup = %q, %v", ch, ok)
	}

	r.Unregister(userID, "ch-new")
	if _, ok := r.Lookup(userID); ok {
		t.Fatal("matching unregister should remove the mapping")
	}
}

func TestOnlineIDs(t *testing.T) {
	r := NewRegistry()
	a, b := uuid.New(), uuid.New()

	r.Register(a, "ch-a")
	r.Register(b, "ch-b")

	ids := r.OnlineIDs()
	if len(ids) != 2 {
		t.Fatalf("OnlineIDs returned %d ids, want 2", len(ids))
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[a] || !seen[b] {
		t.Fatalf("OnlineIDs = %v, missing a registered user", ids)
	}

	r.Unregister(a, "ch-a")
	if got := len(r.OnlineIDs()); got != 1 {
		t.Fatalf("OnlineIDs after unregister returned %d ids, want 1", got)
	}
}
