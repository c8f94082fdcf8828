package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttachmentStatus represents the upload lifecycle of an attachment
type AttachmentStatus string

const (
	AttachmentStatusTemp      AttachmentStatus = "TEMP"      // Registered, upload not yet completed
	AttachmentStatusConfirmed AttachmentStatus = "CONFIRMED" // Upload completed and linked to the card
)

// Attachment represents a file attached to a card. The FileURL column stores
// the blob-store key only, never a full URL.
type Attachment struct {
	BaseModel
	CardID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_attachments_card_id" json:"card_id"`
	Status      AttachmentStatus `gorm:"type:varchar(20);not null;default:'TEMP';index:idx_attachments_status" json:"status"`
	FileName    string           `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL     string           `gorm:"type:text;not null" json:"file_url"`
	FileSize    int64            `gorm:"not null" json:"file_size"`
	ContentType string           `gorm:"type:varchar(100);not null" json:"content_type"`
	UploadedBy  uuid.UUID        `gorm:"type:uuid;not null;index:idx_attachments_uploaded_by" json:"uploaded_by"`
	ExpiresAt   *time.Time       `gorm:"type:timestamp;index:idx_attachments_expires_at" json:"expires_at"`
	Card        Card             `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"card,omitempty"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
