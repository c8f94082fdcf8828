package realtime

import (
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard-api/internal/database"
)

// Hub tracks which live connections are subscribed to which board and fans
// events out to them. Join, leave and disconnect are synchronous so that a
// publish issued after a disconnect returns never reaches the gone client.
// A Redis bridge mirrors every publish to other processes serving the same
// boards; messages originating here are ignored when they echo back.
type Hub struct {
	id     string
	rooms  map[uuid.UUID]map[*Client]bool
	mu     sync.RWMutex
	redis  *redis.Client
	logger *zap.Logger

	// optional hooks, nil-safe
	onConnectionChange func(delta int)
	onEventPublished   func(eventType string)
}

// NewHub creates a hub. redisClient may be nil for single-process setups;
// the hub then fans out locally only.
func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	h := &Hub{
		id:     uuid.NewString(),
		rooms:  make(map[uuid.UUID]map[*Client]bool),
		redis:  redisClient,
		logger: logger,
	}
	if redisClient != nil {
		go h.subscribeLoop()
	}
	return h
}

// SetConnectionGauge registers a callback invoked with +1/-1 as connections
// come and go, used to feed the websocket connection gauge.
func (h *Hub) SetConnectionGauge(fn func(delta int)) {
	h.onConnectionChange = fn
}

// SetEventCounter registers a callback invoked once per published event kind.
func (h *Hub) SetEventCounter(fn func(eventType string)) {
	h.onEventPublished = fn
}

// Join subscribes the client to a board room. Repeat joins are no-ops.
// A disconnected client cannot rejoin: its send channel is already closed,
// so re-registering it would make the next publish panic.
func (h *Hub) Join(boardID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.closed {
		return
	}
	if h.rooms[boardID] == nil {
		h.rooms[boardID] = make(map[*Client]bool)
	}
	if h.rooms[boardID][client] {
		return
	}
	h.rooms[boardID][client] = true
	client.boards[boardID] = true

	h.logger.Debug("Client joined board room",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", client.userID.String()))
}

// Leave unsubscribes the client from a board room
func (h *Hub) Leave(boardID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(boardID, client)
}

// Disconnect removes the client from every room it joined and closes its
// send channel. Called exactly once from the read pump's defer.
func (h *Hub) Disconnect(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.closed {
		return
	}
	for boardID := range client.boards {
		h.removeFromRoom(boardID, client)
	}
	client.closed = true
	close(client.send)

	if h.onConnectionChange != nil {
		h.onConnectionChange(-1)
	}
}

// removeFromRoom must be called with h.mu held
func (h *Hub) removeFromRoom(boardID uuid.UUID, client *Client) {
	clients, ok := h.rooms[boardID]
	if !ok {
		return
	}
	if !clients[client] {
		return
	}
	delete(clients, client)
	delete(client.boards, boardID)
	if len(clients) == 0 {
		delete(h.rooms, boardID)
	}
}

// Members returns the clients currently subscribed to a board, in no
// particular order.
func (h *Hub) Members(boardID uuid.UUID) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*Client, 0, len(h.rooms[boardID]))
	for c := range h.rooms[boardID] {
		clients = append(clients, c)
	}
	return clients
}

// Publish delivers the event to every current member of the board room and
// mirrors it to Redis for other processes. Slow receivers are dropped rather
// than allowed to stall the publisher.
func (h *Hub) Publish(boardID uuid.UUID, event Event) {
	raw, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal event",
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return
	}

	h.publishLocal(boardID, raw)

	if h.redis != nil {
		if err := database.PublishBoardEvent(h.redis, boardID.String(), h.id, raw); err != nil {
			h.logger.Warn("Failed to publish event to Redis",
				zap.String("board_id", boardID.String()),
				zap.Error(err))
		}
	}

	if h.onEventPublished != nil {
		h.onEventPublished(string(event.Type))
	}
}

func (h *Hub) publishLocal(boardID uuid.UUID, raw []byte) {
	h.mu.RLock()
	var stalled []*Client
	for client := range h.rooms[boardID] {
		select {
		case client.send <- raw:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	// A full send buffer means the peer stopped reading; cut it loose.
	for _, client := range stalled {
		h.logger.Warn("Dropping stalled client",
			zap.String("board_id", boardID.String()),
			zap.String("user_id", client.userID.String()))
		h.Disconnect(client)
	}
}

// subscribeLoop bridges board events published by other processes into the
// local rooms. Events carrying this hub's origin id already went out locally
// and are skipped.
func (h *Hub) subscribeLoop() {
	pubsub := database.SubscribeBoardEvents(h.redis)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		origin, boardIDStr, raw, err := database.DecodeBoardEvent(msg.Payload)
		if err != nil {
			h.logger.Warn("Failed to decode bridged event", zap.Error(err))
			continue
		}
		if origin == h.id {
			continue
		}
		boardID, err := uuid.Parse(boardIDStr)
		if err != nil {
			continue
		}
		h.publishLocal(boardID, raw)
	}
}

func (h *Hub) connectionOpened() {
	if h.onConnectionChange != nil {
		h.onConnectionChange(1)
	}
}
