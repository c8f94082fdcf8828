package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"taskboard-api/internal/dto"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

// AccessChecker answers whether a user may read a board. Joins re-check
// access so a revoked collaborator cannot keep listening.
type AccessChecker interface {
	CanAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

// CardMover is the fast-path move operation invoked from cardMoved frames
type CardMover interface {
	MoveCard(ctx context.Context, userID, cardID uuid.UUID, listName string, position int) (*dto.CardResponse, error)
}

// Client is one websocket connection. A client may be subscribed to any
// number of board rooms at once.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
	hub    *Hub

	// boards and closed are guarded by hub.mu
	boards map[uuid.UUID]bool
	closed bool
}

// NewClient registers a fresh connection with the hub
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	hub.connectionOpened()
	return &Client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
		hub:    hub,
		boards: make(map[uuid.UUID]bool),
	}
}

// UserID returns the authenticated user behind this connection
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Run starts the read and write pumps and blocks until the connection drops
func (c *Client) Run(access AccessChecker, mover CardMover, logger *zap.Logger) {
	go c.writePump()
	c.readPump(access, mover, logger)
}

func (c *Client) readPump(access AccessChecker, mover CardMover, logger *zap.Logger) {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warn("Failed to parse client message", zap.Error(err))
			continue
		}

		if err := c.handleMessage(&msg, access, mover, logger); err != nil {
			logger.Warn("Failed to handle client message",
				zap.String("type", msg.Type),
				zap.String("user_id", c.userID.String()),
				zap.Error(err))
		}
	}
}

func (c *Client) handleMessage(msg *ClientMessage, access AccessChecker, mover CardMover, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch msg.Type {
	case MessageJoinBoard:
		ok, err := access.CanAccess(ctx, msg.BoardID, c.userID)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("Join denied",
				zap.String("board_id", msg.BoardID.String()),
				zap.String("user_id", c.userID.String()))
			return nil
		}
		c.hub.Join(msg.BoardID, c)

	case MessageLeaveBoard:
		c.hub.Leave(msg.BoardID, c)

	case MessageCardMoved:
		// Persist-and-broadcast happens inside MoveCard; nothing to send back.
		_, err := mover.MoveCard(ctx, c.userID, msg.CardID, msg.NewList, msg.NewPosition)
		return err

	default:
		logger.Warn("Unknown message type", zap.String("type", msg.Type))
	}
	return nil
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
