package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/realtime"
)

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	CreateFunc          func(ctx context.Context, board *domain.Board) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByUserFunc      func(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	UpdateFunc          func(ctx context.Context, board *domain.Board) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	AddCollaboratorFunc func(ctx context.Context, collaborator *domain.Collaborator) error
	HasCollaboratorFunc func(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockBoardRepository) AddCollaborator(ctx context.Context, collaborator *domain.Collaborator) error {
	if m.AddCollaboratorFunc != nil {
		return m.AddCollaboratorFunc(ctx, collaborator)
	}
	return nil
}

func (m *MockBoardRepository) HasCollaborator(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	if m.HasCollaboratorFunc != nil {
		return m.HasCollaboratorFunc(ctx, boardID, userID)
	}
	return true, nil
}

// MockCardRepository is a mock implementation of CardRepository
type MockCardRepository struct {
	CreateFunc            func(ctx context.Context, card *domain.Card) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	FindByBoardIDFunc     func(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error)
	NextPositionFunc      func(ctx context.Context, boardID uuid.UUID, listName domain.ListName) (int, error)
	UpdateWithVersionFunc func(ctx context.Context, card *domain.Card, expectedVersion int64) (bool, error)
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, card)
	}
	return nil
}

func (m *MockCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCardRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockCardRepository) NextPosition(ctx context.Context, boardID uuid.UUID, listName domain.ListName) (int, error) {
	if m.NextPositionFunc != nil {
		return m.NextPositionFunc(ctx, boardID, listName)
	}
	return 0, nil
}

func (m *MockCardRepository) UpdateWithVersion(ctx context.Context, card *domain.Card, expectedVersion int64) (bool, error) {
	if m.UpdateWithVersionFunc != nil {
		return m.UpdateWithVersionFunc(ctx, card, expectedVersion)
	}
	return true, nil
}

func (m *MockCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc       func(ctx context.Context, comment *domain.Comment) error
	FindByCardIDFunc func(ctx context.Context, cardID uuid.UUID) ([]*domain.Comment, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.Comment, error) {
	if m.FindByCardIDFunc != nil {
		return m.FindByCardIDFunc(ctx, cardID)
	}
	return nil, nil
}

// MockAttachmentRepository is a mock implementation of AttachmentRepository
type MockAttachmentRepository struct {
	CreateFunc                func(ctx context.Context, attachment *domain.Attachment) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	FindConfirmedByCardIDFunc func(ctx context.Context, cardID uuid.UUID) ([]*domain.Attachment, error)
	ConfirmFunc               func(ctx context.Context, id uuid.UUID) error
	FindExpiredTempFunc       func(ctx context.Context) ([]*domain.Attachment, error)
	DeleteBatchFunc           func(ctx context.Context, ids []uuid.UUID) error
}

func (m *MockAttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, attachment)
	}
	return nil
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) FindConfirmedByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.Attachment, error) {
	if m.FindConfirmedByCardIDFunc != nil {
		return m.FindConfirmedByCardIDFunc(ctx, cardID)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) Confirm(ctx context.Context, id uuid.UUID) error {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, id)
	}
	return nil
}

func (m *MockAttachmentRepository) FindExpiredTemp(ctx context.Context) ([]*domain.Attachment, error) {
	if m.FindExpiredTempFunc != nil {
		return m.FindExpiredTempFunc(ctx)
	}
	return nil, nil
}

func (m *MockAttachmentRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if m.DeleteBatchFunc != nil {
		return m.DeleteBatchFunc(ctx, ids)
	}
	return nil
}

// MockBroadcaster records published events for assertions
type MockBroadcaster struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (m *MockBroadcaster) Publish(boardID uuid.UUID, event realtime.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockBroadcaster) Events() []realtime.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]realtime.Event, len(m.events))
	copy(out, m.events)
	return out
}
