package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

// CardRepository defines the interface for card data access
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error)
	NextPosition(ctx context.Context, boardID uuid.UUID, listName domain.ListName) (int, error)
	UpdateWithVersion(ctx context.Context, card *domain.Card, expectedVersion int64) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// cardRepositoryImpl is the GORM implementation of CardRepository
type cardRepositoryImpl struct {
	db *gorm.DB
}

// NewCardRepository creates a new instance of CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepositoryImpl{db: db}
}

// Create creates a new card
func (r *cardRepositoryImpl) Create(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// FindByID finds a card by its ID
func (r *cardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var card domain.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByBoardID finds all cards on a board ordered by list and position,
// creation time as the stable tie-break within a position
func (r *cardRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error) {
	var cards []*domain.Card
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("list_name ASC, position ASC, created_at ASC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// NextPosition returns the next free position in (board, list)
func (r *cardRepositoryImpl) NextPosition(ctx context.Context, boardID uuid.UUID, listName domain.ListName) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&domain.Card{}).
		Select("MAX(position)").
		Where("board_id = ? AND list_name = ?", boardID, listName).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// UpdateWithVersion persists the card only if the stored version still equals
// expectedVersion (compare-and-swap). Returns false when another writer got
// there first; the caller re-reads and reports a conflict.
func (r *cardRepositoryImpl) UpdateWithVersion(ctx context.Context, card *domain.Card, expectedVersion int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Card{}).
		Where("id = ? AND version = ?", card.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":       card.Title,
			"description": card.Description,
			"list_name":   card.ListName,
			"position":    card.Position,
			"assignee_id": card.AssigneeID,
			"version":     card.Version,
			"updated_at":  card.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes a card
func (r *cardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Card{}, "id = ?", id).Error
}
