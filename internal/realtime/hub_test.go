package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// receive drains one frame from the client's send channel without blocking
// the test forever on a bug
func receive(t *testing.T, c *Client) (Event, bool) {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		if !ok {
			return Event{}, false
		}
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("failed to unmarshal event frame: %v", err)
		}
		return event, true
	default:
		return Event{}, false
	}
}

func newTestClient(hub *Hub) *Client {
	return NewClient(hub, nil, uuid.New())
}

func TestHub_PublishReachesRoomMembers(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	boardID := uuid.New()
	otherBoard := uuid.New()

	member := newTestClient(hub)
	outsider := newTestClient(hub)
	hub.Join(boardID, member)
	hub.Join(otherBoard, outsider)

	hub.Publish(boardID, Event{Type: EventCardUpdated, BoardID: boardID})

	event, ok := receive(t, member)
	if !ok {
		t.Fatal("room member received nothing")
	}
	if event.Type != EventCardUpdated || event.BoardID != boardID {
		t.Errorf("member received %+v, want cardUpdated on %v", event, boardID)
	}

	if _, ok := receive(t, outsider); ok {
		t.Error("client in a different room received the event")
	}
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	boardID := uuid.New()
	client := newTestClient(hub)

	hub.Join(boardID, client)
	hub.Join(boardID, client)

	if got := len(hub.Members(boardID)); got != 1 {
		t.Fatalf("Members() = %d after double join, want 1", got)
	}

	hub.Publish(boardID, Event{Type: EventCommentAdded, BoardID: boardID})
	if _, ok := receive(t, client); !ok {
		t.Fatal("client received nothing")
	}
	if _, ok := receive(t, client); ok {
		t.Error("double join produced a duplicate delivery")
	}
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	boardID := uuid.New()
	client := newTestClient(hub)

	hub.Join(boardID, client)
	hub.Leave(boardID, client)

	hub.Publish(boardID, Event{Type: EventCardUpdated, BoardID: boardID})
	if _, ok := receive(t, client); ok {
		t.Error("client received an event after leaving")
	}
	if got := len(hub.Members(boardID)); got != 0 {
		t.Errorf("Members() = %d after leave, want 0", got)
	}
}

func TestHub_DisconnectRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	boardA := uuid.New()
	boardB := uuid.New()
	client := newTestClient(hub)

	hub.Join(boardA, client)
	hub.Join(boardB, client)
	hub.Disconnect(client)

	if len(hub.Members(boardA)) != 0 || len(hub.Members(boardB)) != 0 {
		t.Error("Disconnect() left the client in a room")
	}

	// Disconnect is idempotent; a second call must not close the channel twice
	hub.Disconnect(client)

	// Publishing after disconnect must not panic on the closed channel
	hub.Publish(boardA, Event{Type: EventCardUpdated, BoardID: boardA})
}

func TestHub_JoinAfterDisconnectIsRejected(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	boardID := uuid.New()
	client := newTestClient(hub)

	hub.Join(boardID, client)
	hub.Disconnect(client)

	// A read pump may still process a join frame after an eviction; the
	// client's send channel is closed, so it must not re-enter the room.
	hub.Join(boardID, client)

	if got := len(hub.Members(boardID)); got != 0 {
		t.Fatalf("Members() = %d after join-after-disconnect, want 0", got)
	}

	// Publishing must not panic on the closed send channel
	hub.Publish(boardID, Event{Type: EventCardUpdated, BoardID: boardID})
}

func TestHub_ConnectionGauge(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	total := 0
	hub.SetConnectionGauge(func(delta int) { total += delta })

	a := newTestClient(hub)
	b := newTestClient(hub)
	if total != 2 {
		t.Fatalf("gauge = %d after two connects, want 2", total)
	}

	hub.Disconnect(a)
	hub.Disconnect(a) // repeat must not double-count
	hub.Disconnect(b)
	if total != 0 {
		t.Errorf("gauge = %d after all disconnects, want 0", total)
	}
}

func TestHub_EventCounter(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	counts := map[string]int{}
	hub.SetEventCounter(func(eventType string) { counts[eventType]++ })

	boardID := uuid.New()
	hub.Publish(boardID, Event{Type: EventCardUpdated, BoardID: boardID})
	hub.Publish(boardID, Event{Type: EventCommentAdded, BoardID: boardID})
	hub.Publish(boardID, Event{Type: EventCardUpdated, BoardID: boardID})

	if counts[string(EventCardUpdated)] != 2 || counts[string(EventCommentAdded)] != 1 {
		t.Errorf("event counts = %v, want cardUpdated:2 commentAdded:1", counts)
	}
}

func TestHub_StalledClientIsDropped(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	boardID := uuid.New()
	client := newTestClient(hub)
	hub.Join(boardID, client)

	// Fill the send buffer without a reader; the next publish must drop the
	// client instead of blocking.
	for i := 0; i < sendBufferSize; i++ {
		client.send <- []byte("{}")
	}
	hub.Publish(boardID, Event{Type: EventCardUpdated, BoardID: boardID})

	if got := len(hub.Members(boardID)); got != 0 {
		t.Errorf("Members() = %d after stalled publish, want 0 (client dropped)", got)
	}
}
