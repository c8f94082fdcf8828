package domain

import (
	"github.com/google/uuid"
)

// ListName identifies the lane a card sits in on its board
type ListName string

const (
	ListTodo       ListName = "To Do"
	ListInProgress ListName = "In Progress"
	ListDone       ListName = "Done"
)

// ValidListNames returns the fixed set of lanes a card may occupy
func ValidListNames() []ListName {
	return []ListName{ListTodo, ListInProgress, ListDone}
}

// IsValidListName reports whether name is one of the known lanes
func IsValidListName(name ListName) bool {
	switch name {
	case ListTodo, ListInProgress, ListDone:
		return true
	}
	return false
}

// Card represents a task card on a board.
// Version is a monotonic counter incremented exactly once per accepted
// mutation; concurrent writers are serialized by compare-and-swap on it.
type Card struct {
	BaseModel
	BoardID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_cards_board_id" json:"board_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ListName    ListName   `gorm:"type:varchar(50);not null;default:'To Do';index:idx_cards_board_list,priority:2" json:"list_name"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index:idx_cards_assignee_id" json:"assignee_id"`
	Version     int64      `gorm:"not null;default:1" json:"version"`
	Board       Board      `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
	Comments    []Comment  `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// TableName specifies the table name for Card
func (Card) TableName() string {
	return "cards"
}
