package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddCollaborator(ctx context.Context, collaborator *domain.Collaborator) error
	HasCollaborator(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

// boardRepositoryImpl is the GORM implementation of BoardRepository
type boardRepositoryImpl struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepositoryImpl{db: db}
}

// Create creates a new board
func (r *boardRepositoryImpl) Create(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// FindByID finds a board by its ID including collaborators
func (r *boardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).
		Preload("Collaborators").
		First(&board, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByUser finds all boards the user owns or collaborates on
func (r *boardRepositoryImpl) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	var boards []*domain.Board
	if err := r.db.WithContext(ctx).
		Joins("JOIN collaborators ON collaborators.board_id = boards.id").
		Where("collaborators.user_id = ?", userID).
		Preload("Collaborators").
		Order("boards.updated_at DESC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update saves board attribute changes
func (r *boardRepositoryImpl) Update(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// Delete removes a board and everything on it
func (r *boardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Board{}, "id = ?", id).Error
}

// AddCollaborator adds a user to the board's collaborator set. The unique
// index on (board_id, user_id) enforces set semantics at the storage level.
func (r *boardRepositoryImpl) AddCollaborator(ctx context.Context, collaborator *domain.Collaborator) error {
	return r.db.WithContext(ctx).Create(collaborator).Error
}

// HasCollaborator reports whether the user is in the board's collaborator set
func (r *boardRepositoryImpl) HasCollaborator(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Collaborator{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}
