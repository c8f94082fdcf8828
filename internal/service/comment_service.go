package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

// CommentService defines the interface for comment business logic.
// Comments are immutable and never conflict-checked.
type CommentService interface {
	AddComment(ctx context.Context, userID, cardID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, userID, cardID uuid.UUID) ([]*dto.CommentResponse, error)
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	cardRepo    repository.CardRepository
	boardRepo   repository.BoardRepository
	broadcaster realtime.Broadcaster
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	cardRepo repository.CardRepository,
	boardRepo repository.BoardRepository,
	broadcaster realtime.Broadcaster,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		cardRepo:    cardRepo,
		boardRepo:   boardRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// AddComment adds a comment to a card and broadcasts commentAdded to the
// board room
func (s *commentServiceImpl) AddComment(ctx context.Context, userID, cardID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	card, err := s.accessibleCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		CardID:  cardID,
		UserID:  userID,
		Content: req.Content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.logger.Error("Failed to create comment",
			zap.String("card_id", cardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to create comment", err.Error())
	}

	resp := toCommentResponse(comment)
	if s.broadcaster != nil {
		s.broadcaster.Publish(card.BoardID, realtime.Event{
			Type:    realtime.EventCommentAdded,
			BoardID: card.BoardID,
			Payload: resp,
		})
	}
	return resp, nil
}

// ListComments returns a card's comments ordered oldest first
func (s *commentServiceImpl) ListComments(ctx context.Context, userID, cardID uuid.UUID) ([]*dto.CommentResponse, error) {
	if _, err := s.accessibleCard(ctx, userID, cardID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByCardID(ctx, cardID)
	if err != nil {
		s.logger.Error("Failed to list comments",
			zap.String("card_id", cardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to list comments", err.Error())
	}

	result := make([]*dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		result = append(result, toCommentResponse(comment))
	}
	return result, nil
}

// accessibleCard loads a card and enforces collaborator access on its board
func (s *commentServiceImpl) accessibleCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := findCardOn(ctx, s.cardRepo, cardID)
	if err != nil {
		return nil, err
	}

	ok, err := s.boardRepo.HasCollaborator(ctx, card.BoardID, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to check board access", err.Error())
	}
	if !ok {
		return nil, response.NewAppError(response.ErrCodeForbidden, "no access to this board", "")
	}
	return card, nil
}

// toCommentResponse converts a comment entity to its response DTO
func toCommentResponse(comment *domain.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		CommentID: comment.ID,
		CardID:    comment.CardID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
