package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/metrics"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

// BoardService defines the interface for board business logic
type BoardService interface {
	CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*dto.BoardDetailResponse, error)
	ListBoards(ctx context.Context, userID uuid.UUID) ([]*dto.BoardResponse, error)
	UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error)
	DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error
	CanAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

// boardServiceImpl is the implementation of BoardService
type boardServiceImpl struct {
	boardRepo repository.BoardRepository
	cardRepo  repository.CardRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewBoardService creates a new instance of BoardService
func NewBoardService(
	boardRepo repository.BoardRepository,
	cardRepo repository.CardRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		boardRepo: boardRepo,
		cardRepo:  cardRepo,
		metrics:   m,
		logger:    logger,
	}
}

// CreateBoard creates a new board owned by the requesting user. The owner is
// written into the collaborator set as well, so every access check reduces to
// a single collaborator lookup.
func (s *boardServiceImpl) CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	board := &domain.Board{
		OwnerID: userID,
		Title:   req.Title,
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		s.logger.Error("Failed to create board",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to create board", err.Error())
	}

	collaborator := &domain.Collaborator{
		BoardID: board.ID,
		UserID:  userID,
	}
	if err := s.boardRepo.AddCollaborator(ctx, collaborator); err != nil {
		s.logger.Error("Failed to add owner as collaborator",
			zap.String("board_id", board.ID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to create board", err.Error())
	}
	board.Collaborators = []domain.Collaborator{*collaborator}

	if s.metrics != nil {
		s.metrics.IncrementBoardCreated()
	}

	s.logger.Info("Board created",
		zap.String("board_id", board.ID.String()),
		zap.String("owner_id", userID.String()),
	)

	return toBoardResponse(board), nil
}

// GetBoard returns a board with its cards. Collaborator access required.
func (s *boardServiceImpl) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*dto.BoardDetailResponse, error) {
	board, err := s.findAccessibleBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		s.logger.Error("Failed to load board cards",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to load board", err.Error())
	}

	detail := &dto.BoardDetailResponse{
		BoardResponse: *toBoardResponse(board),
		Cards:         make([]dto.CardResponse, 0, len(cards)),
	}
	for _, card := range cards {
		detail.Cards = append(detail.Cards, *toCardResponse(card))
	}
	return detail, nil
}

// ListBoards returns every board the user owns or collaborates on
func (s *boardServiceImpl) ListBoards(ctx context.Context, userID uuid.UUID) ([]*dto.BoardResponse, error) {
	boards, err := s.boardRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list boards",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to list boards", err.Error())
	}

	result := make([]*dto.BoardResponse, 0, len(boards))
	for _, board := range boards {
		result = append(result, toBoardResponse(board))
	}
	return result, nil
}

// UpdateBoard renames a board. Any collaborator may rename.
func (s *boardServiceImpl) UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error) {
	board, err := s.findAccessibleBoard(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}

	board.Title = req.Title
	if err := s.boardRepo.Update(ctx, board); err != nil {
		s.logger.Error("Failed to update board",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to update board", err.Error())
	}

	return toBoardResponse(board), nil
}

// DeleteBoard deletes a board. Owner only.
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error {
	board, err := s.findBoard(ctx, boardID)
	if err != nil {
		return err
	}

	if board.OwnerID != userID {
		return response.NewAppError(response.ErrCodeForbidden, "only the board owner can delete the board", "")
	}

	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		s.logger.Error("Failed to delete board",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return response.NewAppError(response.ErrCodeInternal, "failed to delete board", err.Error())
	}

	s.logger.Info("Board deleted",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// CanAccess reports whether the user is in the board's collaborator set.
// The owner is stored there on creation, so this covers ownership too.
func (s *boardServiceImpl) CanAccess(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	return s.boardRepo.HasCollaborator(ctx, boardID, userID)
}

// findBoard loads a board or maps a missing row to a NOT_FOUND AppError
func (s *boardServiceImpl) findBoard(ctx context.Context, boardID uuid.UUID) (*domain.Board, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "board not found", "")
		}
		s.logger.Error("Failed to find board",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to find board", err.Error())
	}
	return board, nil
}

// findAccessibleBoard loads a board and enforces collaborator access
func (s *boardServiceImpl) findAccessibleBoard(ctx context.Context, boardID, userID uuid.UUID) (*domain.Board, error) {
	board, err := s.findBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	ok, err := s.boardRepo.HasCollaborator(ctx, boardID, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to check board access", err.Error())
	}
	if !ok {
		return nil, response.NewAppError(response.ErrCodeForbidden, "no access to this board", "")
	}
	return board, nil
}

// toBoardResponse converts a board entity to its response DTO
func toBoardResponse(board *domain.Board) *dto.BoardResponse {
	collaboratorIDs := make([]uuid.UUID, 0, len(board.Collaborators))
	for _, c := range board.Collaborators {
		collaboratorIDs = append(collaboratorIDs, c.UserID)
	}

	return &dto.BoardResponse{
		ID:              board.ID,
		OwnerID:         board.OwnerID,
		Title:           board.Title,
		CollaboratorIDs: collaboratorIDs,
		CreatedAt:       board.CreatedAt,
		UpdatedAt:       board.UpdatedAt,
	}
}
