package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard-api/internal/client"
	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

// tempAttachmentTTL is how long a registered attachment may stay unconfirmed
// before the cleanup job reclaims it
const tempAttachmentTTL = 30 * time.Minute

// AttachmentService defines the interface for attachment business logic.
// Attachments follow a two-phase lifecycle: register reserves metadata and a
// presigned upload URL (TEMP), complete confirms the upload (CONFIRMED).
type AttachmentService interface {
	RegisterAttachment(ctx context.Context, userID, cardID uuid.UUID, req *dto.RegisterAttachmentRequest) (*dto.RegisterAttachmentResponse, error)
	CompleteAttachment(ctx context.Context, userID, attachmentID uuid.UUID) (*dto.AttachmentResponse, error)
	ListAttachments(ctx context.Context, userID, cardID uuid.UUID) ([]*dto.AttachmentResponse, error)
}

// attachmentServiceImpl is the implementation of AttachmentService
type attachmentServiceImpl struct {
	attachmentRepo repository.AttachmentRepository
	cardRepo       repository.CardRepository
	boardRepo      repository.BoardRepository
	s3Client       client.S3ClientInterface
	broadcaster    realtime.Broadcaster
	logger         *zap.Logger
}

// NewAttachmentService creates a new instance of AttachmentService
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	cardRepo repository.CardRepository,
	boardRepo repository.BoardRepository,
	s3Client client.S3ClientInterface,
	broadcaster realtime.Broadcaster,
	logger *zap.Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		attachmentRepo: attachmentRepo,
		cardRepo:       cardRepo,
		boardRepo:      boardRepo,
		s3Client:       s3Client,
		broadcaster:    broadcaster,
		logger:         logger,
	}
}

// RegisterAttachment reserves attachment metadata in TEMP status and returns
// a presigned URL the client uploads the file to directly
func (s *attachmentServiceImpl) RegisterAttachment(ctx context.Context, userID, cardID uuid.UUID, req *dto.RegisterAttachmentRequest) (*dto.RegisterAttachmentResponse, error) {
	card, err := s.accessibleCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	uploadURL, fileKey, err := s.s3Client.GeneratePresignedUploadURL(ctx, card.BoardID.String(), req.FileName, req.ContentType)
	if err != nil {
		s.logger.Error("Failed to generate presigned upload URL",
			zap.String("card_id", cardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to register attachment", err.Error())
	}

	expiresAt := time.Now().Add(tempAttachmentTTL)
	attachment := &domain.Attachment{
		CardID:      cardID,
		Status:      domain.AttachmentStatusTemp,
		FileName:    req.FileName,
		FileURL:     fileKey,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		UploadedBy:  userID,
		ExpiresAt:   &expiresAt,
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		s.logger.Error("Failed to create attachment record",
			zap.String("card_id", cardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to register attachment", err.Error())
	}

	return &dto.RegisterAttachmentResponse{
		Attachment: *s.toAttachmentResponse(attachment),
		UploadURL:  uploadURL,
	}, nil
}

// CompleteAttachment confirms an uploaded attachment and broadcasts
// attachmentAdded to the board room
func (s *attachmentServiceImpl) CompleteAttachment(ctx context.Context, userID, attachmentID uuid.UUID) (*dto.AttachmentResponse, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "attachment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to find attachment", err.Error())
	}

	card, err := s.accessibleCard(ctx, userID, attachment.CardID)
	if err != nil {
		return nil, err
	}

	if err := s.attachmentRepo.Confirm(ctx, attachmentID); err != nil {
		s.logger.Error("Failed to confirm attachment",
			zap.String("attachment_id", attachmentID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to confirm attachment", err.Error())
	}

	attachment.Status = domain.AttachmentStatusConfirmed
	attachment.ExpiresAt = nil

	resp := s.toAttachmentResponse(attachment)
	if s.broadcaster != nil {
		s.broadcaster.Publish(card.BoardID, realtime.Event{
			Type:    realtime.EventAttachmentAdded,
			BoardID: card.BoardID,
			Payload: resp,
		})
	}
	return resp, nil
}

// ListAttachments returns a card's confirmed attachments
func (s *attachmentServiceImpl) ListAttachments(ctx context.Context, userID, cardID uuid.UUID) ([]*dto.AttachmentResponse, error) {
	if _, err := s.accessibleCard(ctx, userID, cardID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.FindConfirmedByCardID(ctx, cardID)
	if err != nil {
		s.logger.Error("Failed to list attachments",
			zap.String("card_id", cardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to list attachments", err.Error())
	}

	result := make([]*dto.AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		result = append(result, s.toAttachmentResponse(attachment))
	}
	return result, nil
}

// accessibleCard loads a card and enforces collaborator access on its board
func (s *attachmentServiceImpl) accessibleCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
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

// toAttachmentResponse converts an attachment entity to its response DTO,
// resolving the stored object key to a downloadable URL
func (s *attachmentServiceImpl) toAttachmentResponse(attachment *domain.Attachment) *dto.AttachmentResponse {
	return &dto.AttachmentResponse{
		ID:          attachment.ID,
		CardID:      attachment.CardID,
		FileName:    attachment.FileName,
		FileURL:     s.s3Client.GetFileURL(attachment.FileURL),
		FileSize:    attachment.FileSize,
		ContentType: attachment.ContentType,
		UploadedBy:  attachment.UploadedBy,
		UploadedAt:  attachment.CreatedAt,
	}
}
