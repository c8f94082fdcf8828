package domain

import (
	"github.com/google/uuid"
)

// Board represents a shared task board owned by one user
type Board struct {
	BaseModel
	OwnerID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_boards_owner_id" json:"owner_id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Collaborators []Collaborator `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"collaborators,omitempty"`
	Cards         []Card         `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"cards,omitempty"`
}

// Collaborator represents a user with access to a board.
// The owner is stored here too, so access checks only need this table.
type Collaborator struct {
	BaseModel
	BoardID uuid.UUID `gorm:"type:uuid;not null;index:idx_collaborators_board_id;uniqueIndex:uq_collaborators_board_user" json:"board_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_collaborators_user_id;uniqueIndex:uq_collaborators_board_user" json:"user_id"`
	Board   Board     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}

// TableName specifies the table name for Collaborator
func (Collaborator) TableName() string {
	return "collaborators"
}
