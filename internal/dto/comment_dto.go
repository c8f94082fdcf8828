package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateCommentRequest represents the request to add a comment to a card
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// CommentResponse represents the comment response
type CommentResponse struct {
	CommentID uuid.UUID `json:"commentId"`
	CardID    uuid.UUID `json:"cardId"`
	UserID    uuid.UUID `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
