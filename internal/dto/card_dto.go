package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateCardRequest represents the request to create a new card.
// ListName defaults to "To Do" when omitted; the position is assigned
// server-side as the next slot in the target list.
type CreateCardRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255"`
	Description string     `json:"description"`
	ListName    string     `json:"listName"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
}

// UpdateCardRequest represents a conflict-guarded card mutation.
// ClientVersion is the version the client last observed; when present and
// older than the stored version the update is rejected with the current
// card attached. Absent means force apply.
type UpdateCardRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description   *string    `json:"description"`
	ListName      *string    `json:"listName"`
	Position      *int       `json:"position" binding:"omitempty,min=0"`
	AssigneeID    *uuid.UUID `json:"assigneeId"`
	ClientVersion *int64     `json:"clientVersion" binding:"omitempty,min=1"`
}

// MoveCardRequest represents the fast-path card move (list and/or position)
type MoveCardRequest struct {
	ListName string `json:"listName" binding:"required"`
	Position int    `json:"position" binding:"min=0"`
}

// CardResponse represents the card response
type CardResponse struct {
	ID          uuid.UUID  `json:"id"`
	BoardID     uuid.UUID  `json:"boardId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ListName    string     `json:"listName"`
	Position    int        `json:"position"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CardConflictResponse is the 409 body for a stale update: the error
// envelope plus the authoritative current card for client-side reconcile
type CardConflictResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Current *CardResponse `json:"current"`
}
