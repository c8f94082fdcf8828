package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateBoardRequest represents the request to create a new board
type CreateBoardRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// UpdateBoardRequest represents the request to rename a board
type UpdateBoardRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// BoardResponse represents the board summary response
type BoardResponse struct {
	ID              uuid.UUID   `json:"id"`
	OwnerID         uuid.UUID   `json:"ownerId"`
	Title           string      `json:"title"`
	CollaboratorIDs []uuid.UUID `json:"collaboratorIds"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// BoardDetailResponse is the board response including its cards
type BoardDetailResponse struct {
	BoardResponse
	Cards []CardResponse `json:"cards"`
}
