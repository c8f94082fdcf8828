package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterAttachmentRequest registers attachment metadata before upload
type RegisterAttachmentRequest struct {
	FileName    string `json:"fileName" binding:"required,min=1,max=255"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1"`
}

// RegisterAttachmentResponse carries the presigned upload URL for the
// registered attachment
type RegisterAttachmentResponse struct {
	Attachment AttachmentResponse `json:"attachment"`
	UploadURL  string             `json:"uploadUrl"`
}

// AttachmentResponse represents the attachment response
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	CardID      uuid.UUID `json:"cardId"`
	FileName    string    `json:"fileName"`
	FileURL     string    `json:"fileUrl"`
	FileSize    int64     `json:"fileSize"`
	ContentType string    `json:"contentType"`
	UploadedBy  uuid.UUID `json:"uploadedBy"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
