package domain

import "github.com/google/uuid"

// Comment represents a comment on a card. Immutable once created.
type Comment struct {
	BaseModel
	CardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_card_id" json:"card_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_user_id" json:"user_id"`
	Content string    `gorm:"type:text;not null" json:"content"`
	Card    Card      `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"card,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
