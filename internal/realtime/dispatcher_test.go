package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

// fakeSender records every frame pushed at it.
type fakeSender struct {
	frames [][]byte
	full   bool
}

func (f *fakeSender) Send(frame []byte) bool {
	if f.full {
		return false
	}
	f.frames = append(f.frames, frame)
	return true
}

func (f *fakeSender) events(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, frame := range f.frames {
		var env struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("bad frame %q: %v", frame, err)
		}
		out = append(out, env.Event)
	}
	return out
}

func TestNotifySkipsOfflineUsers(t *testing.T) {
	hub := NewHub(NewRegistry())
	online := uuid.New()
	offline := uuid.New()

	s := &fakeSender{}
	hub.Attach(online, s)
	s.frames = nil // drop the presence frame from Attach

	hub.Notify([]uuid.UUID{online, offline}, EventNewMessage, map[string]string{"id": "m1"})

	events := s.events(t)
	if len(events) != 1 || events[0] != EventNewMessage {
		t.Fatalf("online user got %v, want exactly one newMessage", events)
	}
}

func TestNotifyDeliversOncePerTarget(t *testing.T) {
	hub := NewHub(NewRegistry())
	a, b := uuid.New(), uuid.New()

	sa, sb := &fakeSender{}, &fakeSender{}
	hub.Attach(a, sa)
	hub.Attach(b, sb)
	sa.frames, sb.frames = nil, nil

	hub.Notify([]uuid.UUID{a, b}, EventNewConversation, nil)

	if got := len(sa.events(t)); got != 1 {
		t.Errorf("a received %d frames, want 1", got)
	}
	if got := len(sb.events(t)); got != 1 {
		t.Errorf("b received %d frames, want 1", got)
	}
}

func TestAttachBroadcastsPresence(t *testing.T) {
	hub := NewHub(NewRegistry())
	a, b := uuid.New(), uuid.New()

	sa := &fakeSender{}
	hub.Attach(a, sa)

	sb := &fakeSender{}
	hub.Attach(b, sb)

	// a sees its own join plus b's join; b sees only its own join.
	aEvents := sa.events(t)
	if len(aEvents) != 2 || aEvents[0] != EventOnlineUsers || aEvents[1] != EventOnlineUsers {
		t.Fatalf("a got %v, want two presence frames", aEvents)
	}
	if bEvents := sb.events(t); len(bEvents) != 1 || bEvents[0] != EventOnlineUsers {
		t.Fatalf("b got %v, want one presence frame", bEvents)
	}

	// The latest snapshot a received must list both users.
	var env struct {
		Payload []uuid.UUID `json:"payload"`
	}
	if err := json.Unmarshal(sa.frames[1], &env); err != nil {
		t.Fatal(err)
	}
	if len(env.Payload) != 2 {
		t.Fatalf("presence snapshot lists %d users, want 2", len(env.Payload))
	}
}

func TestDetachStopsDelivery(t *testing.T) {
	hub := NewHub(NewRegistry())
	userID := uuid.New()

	s := &fakeSender{}
	channelID := hub.Attach(userID, s)
	hub.Detach(userID, channelID)
	s.frames = nil

	hub.Notify([]uuid.UUID{userID}, EventNewMessage, nil)
	if len(s.frames) != 0 {
		t.Fatalf("detached channel still received %d frames", len(s.frames))
	}
}

func TestStaleDetachKeepsNewConnection(t *testing.T) {
	hub := NewHub(NewRegistry())
	userID := uuid.New()

	old := &fakeSender{}
	oldCh := hub.Attach(userID, old)

	fresh := &fakeSender{}
	hub.Attach(userID, fresh)

	// The replaced connection detaches late; the fresh one must keep
	// receiving.
	hub.Detach(userID, oldCh)
	fresh.frames = nil

	hub.Notify([]uuid.UUID{userID}, EventNewMessage, nil)
	if got := len(fresh.events(t)); got != 1 {
		t.Fatalf("fresh connection received %d frames after stale detach, want 1", got)
	}
}

func TestBroadcastReachesEveryChannel(t *testing.T) {
	hub := NewHub(NewRegistry())

	sa, sb := &fakeSender{}, &fakeSender{}
	hub.Attach(uuid.New(), sa)
	hub.Attach(uuid.New(), sb)
	sa.frames, sb.frames = nil, nil

	hub.Broadcast(EventDeleteConversation, map[string]string{"id": "c1"})

	if got := sa.events(t); len(got) != 1 || got[0] != EventDeleteConversation {
		t.Errorf("a got %v", got)
	}
	if got := sb.events(t); len(got) != 1 || got[0] != EventDeleteConversation {
		t.Errorf("b got %v", got)
	}
}

func TestNotifyToleratesFullChannel(t *testing.T) {
	hub := NewHub(NewRegistry())
	userID := uuid.New()

	hub.Attach(userID, &fakeSender{full: true})

	// Must not panic or block; the frame is dropped.
	hub.Notify([]uuid.UUID{userID}, EventNewMessage, nil)
}
