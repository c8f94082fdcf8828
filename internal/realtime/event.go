package realtime

import (
	"github.com/google/uuid"
)

// EventType identifies a server-initiated board event
type EventType string

const (
	EventCardUpdated     EventType = "cardUpdated"
	EventCommentAdded    EventType = "commentAdded"
	EventAttachmentAdded EventType = "attachmentAdded"
)

// Event is a board-scoped domain event fanned out to room members.
// Delivery is at-most-once and never persisted; clients joining later
// rebuild state from a full fetch.
type Event struct {
	Type    EventType   `json:"type"`
	BoardID uuid.UUID   `json:"boardId"`
	Payload interface{} `json:"payload"`
}

// Broadcaster delivers an event to every current member of a board room.
// Implementations are fire-and-forget: failures are logged, never returned.
type Broadcaster interface {
	Publish(boardID uuid.UUID, event Event)
}

// ClientMessage is a frame sent by a connected client
type ClientMessage struct {
	Type        string    `json:"type"`
	BoardID     uuid.UUID `json:"boardId,omitempty"`
	CardID      uuid.UUID `json:"cardId,omitempty"`
	NewList     string    `json:"newList,omitempty"`
	NewPosition int       `json:"newPosition,omitempty"`
}

// Client message types
const (
	MessageJoinBoard  = "joinBoard"
	MessageLeaveBoard = "leaveBoard"
	MessageCardMoved  = "cardMoved"
)
