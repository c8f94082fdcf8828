package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/metrics"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

// moveRetries bounds CAS retries on the force-apply move path
const moveRetries = 3

// CardService defines the interface for card business logic
type CardService interface {
	CreateCard(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateCardRequest) (*dto.CardResponse, error)
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*dto.CardResponse, error)
	ListCards(ctx context.Context, userID, boardID uuid.UUID) ([]*dto.CardResponse, error)
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, error)
	MoveCard(ctx context.Context, userID, cardID uuid.UUID, listName string, position int) (*dto.CardResponse, error)
}

// cardServiceImpl is the implementation of CardService
type cardServiceImpl struct {
	cardRepo    repository.CardRepository
	boardRepo   repository.BoardRepository
	broadcaster realtime.Broadcaster
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCardService creates a new instance of CardService
func NewCardService(
	cardRepo repository.CardRepository,
	boardRepo repository.BoardRepository,
	broadcaster realtime.Broadcaster,
	m *metrics.Metrics,
	logger *zap.Logger,
) CardService {
	return &cardServiceImpl{
		cardRepo:    cardRepo,
		boardRepo:   boardRepo,
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger,
	}
}

// CreateCard creates a card on a board. The list defaults to "To Do" and the
// card takes the next free position in its list.
func (s *cardServiceImpl) CreateCard(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateCardRequest) (*dto.CardResponse, error) {
	if err := s.checkBoardAccess(ctx, boardID, userID); err != nil {
		return nil, err
	}

	listName := domain.ListTodo
	if req.ListName != "" {
		listName = domain.ListName(req.ListName)
		if !domain.IsValidListName(listName) {
			return nil, response.NewAppError(response.ErrCodeValidation, "invalid list name", req.ListName)
		}
	}

	position, err := s.cardRepo.NextPosition(ctx, boardID, listName)
	if err != nil {
		s.logger.Error("Failed to compute card position",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to create card", err.Error())
	}

	card := &domain.Card{
		BoardID:     boardID,
		Title:       req.Title,
		Description: req.Description,
		ListName:    listName,
		Position:    position,
		AssigneeID:  req.AssigneeID,
		Version:     1,
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		s.logger.Error("Failed to create card",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to create card", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementCardCreated()
	}

	resp := toCardResponse(card)
	s.broadcast(boardID, realtime.EventCardUpdated, resp)
	return resp, nil
}

// GetCard returns a card. Collaborator access on its board required.
func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*dto.CardResponse, error) {
	card, err := findCardOn(ctx, s.cardRepo, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBoardAccess(ctx, card.BoardID, userID); err != nil {
		return nil, err
	}
	return toCardResponse(card), nil
}

// ListCards returns all cards on a board ordered by list and position
func (s *cardServiceImpl) ListCards(ctx context.Context, userID, boardID uuid.UUID) ([]*dto.CardResponse, error) {
	if err := s.checkBoardAccess(ctx, boardID, userID); err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		s.logger.Error("Failed to list cards",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to list cards", err.Error())
	}

	result := make([]*dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		result = append(result, toCardResponse(card))
	}
	return result, nil
}

// UpdateCard applies a conflict-guarded mutation. When the request carries a
// clientVersion strictly older than the stored version the update is rejected
// with the authoritative card attached; an absent clientVersion skips the
// check. An accepted update bumps the version exactly once, serialized by a
// compare-and-swap on the stored version so racing writers get one winner.
func (s *cardServiceImpl) UpdateCard(ctx context.Context, userID, cardID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, error) {
	card, err := findCardOn(ctx, s.cardRepo, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBoardAccess(ctx, card.BoardID, userID); err != nil {
		return nil, err
	}

	if req.ClientVersion != nil && *req.ClientVersion < card.Version {
		return nil, s.conflict(card)
	}

	storedVersion := card.Version

	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Description != nil {
		card.Description = *req.Description
	}
	if req.ListName != nil {
		listName := domain.ListName(*req.ListName)
		if !domain.IsValidListName(listName) {
			return nil, response.NewAppError(response.ErrCodeValidation, "invalid list name", *req.ListName)
		}
		card.ListName = listName
	}
	if req.Position != nil {
		card.Position = *req.Position
	}
	if req.AssigneeID != nil {
		card.AssigneeID = req.AssigneeID
	}

	card.Version = storedVersion + 1
	card.UpdatedAt = time.Now()

	ok, err := s.cardRepo.UpdateWithVersion(ctx, card, storedVersion)
	if err != nil {
		s.logger.Error("Failed to update card",
			zap.String("card_id", cardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to update card", err.Error())
	}
	if !ok {
		// Another writer won the race between our read and the CAS.
		current, err := findCardOn(ctx, s.cardRepo, cardID)
		if err != nil {
			return nil, err
		}
		return nil, s.conflict(current)
	}

	resp := toCardResponse(card)
	s.broadcast(card.BoardID, realtime.EventCardUpdated, resp)
	return resp, nil
}

// MoveCard is the fast path for drag-and-drop: it force-applies the target
// list and position without a client version check. CAS failures are retried
// against the fresh card since last-writer-wins is the intended semantics.
func (s *cardServiceImpl) MoveCard(ctx context.Context, userID, cardID uuid.UUID, listName string, position int) (*dto.CardResponse, error) {
	target := domain.ListName(listName)
	if !domain.IsValidListName(target) {
		return nil, response.NewAppError(response.ErrCodeValidation, "invalid list name", listName)
	}
	if position < 0 {
		return nil, response.NewAppError(response.ErrCodeValidation, "position must be non-negative", "")
	}

	var accessChecked bool
	for attempt := 0; attempt < moveRetries; attempt++ {
		card, err := findCardOn(ctx, s.cardRepo, cardID)
		if err != nil {
			return nil, err
		}
		if !accessChecked {
			if err := s.checkBoardAccess(ctx, card.BoardID, userID); err != nil {
				return nil, err
			}
			accessChecked = true
		}

		storedVersion := card.Version
		card.ListName = target
		card.Position = position
		card.Version = storedVersion + 1
		card.UpdatedAt = time.Now()

		ok, err := s.cardRepo.UpdateWithVersion(ctx, card, storedVersion)
		if err != nil {
			s.logger.Error("Failed to move card",
				zap.String("card_id", cardID.String()),
				zap.Error(err),
			)
			return nil, response.NewAppError(response.ErrCodeInternal, "failed to move card", err.Error())
		}
		if ok {
			resp := toCardResponse(card)
			s.broadcast(card.BoardID, realtime.EventCardUpdated, resp)
			return resp, nil
		}
	}

	return nil, response.NewAppError(response.ErrCodeInternal, "failed to move card", "too much contention")
}

// conflict builds the stale-update rejection carrying the current card
func (s *cardServiceImpl) conflict(current *domain.Card) error {
	if s.metrics != nil {
		s.metrics.IncrementConflictDetected()
	}
	s.logger.Info("Stale card update rejected",
		zap.String("card_id", current.ID.String()),
		zap.Int64("current_version", current.Version),
	)
	return response.NewConflictError("card was modified by another user", toCardResponse(current))
}

// broadcast fans the event out to the board room. Fire-and-forget: a failed
// or absent broadcaster never fails the mutation that triggered it.
func (s *cardServiceImpl) broadcast(boardID uuid.UUID, eventType realtime.EventType, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Publish(boardID, realtime.Event{
		Type:    eventType,
		BoardID: boardID,
		Payload: payload,
	})
}

// checkBoardAccess enforces collaborator access to a board
func (s *cardServiceImpl) checkBoardAccess(ctx context.Context, boardID, userID uuid.UUID) error {
	ok, err := s.boardRepo.HasCollaborator(ctx, boardID, userID)
	if err != nil {
		s.logger.Error("Failed to check board access",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return response.NewAppError(response.ErrCodeInternal, "failed to check board access", err.Error())
	}
	if !ok {
		return response.NewAppError(response.ErrCodeForbidden, "no access to this board", "")
	}
	return nil
}

// findCardOn loads a card or maps a missing row to a NOT_FOUND AppError.
// Shared by every service that resolves a card before an access check.
func findCardOn(ctx context.Context, cardRepo repository.CardRepository, cardID uuid.UUID) (*domain.Card, error) {
	card, err := cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "card not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to find card", err.Error())
	}
	return card, nil
}

// toCardResponse converts a card entity to its response DTO
func toCardResponse(card *domain.Card) *dto.CardResponse {
	return &dto.CardResponse{
		ID:          card.ID,
		BoardID:     card.BoardID,
		Title:       card.Title,
		Description: card.Description,
		ListName:    string(card.ListName),
		Position:    card.Position,
		AssigneeID:  card.AssigneeID,
		Version:     card.Version,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}
