package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	FindConfirmedByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.Attachment, error)
	Confirm(ctx context.Context, id uuid.UUID) error
	FindExpiredTemp(ctx context.Context) ([]*domain.Attachment, error)
	DeleteBatch(ctx context.Context, ids []uuid.UUID) error
}

// attachmentRepositoryImpl is the GORM implementation of AttachmentRepository
type attachmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new instance of AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

// Create creates a new attachment record
func (r *attachmentRepositoryImpl) Create(ctx context.Context, attachment *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// FindByID finds an attachment by its ID
func (r *attachmentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// FindConfirmedByCardID finds the confirmed attachments of a card
func (r *attachmentRepositoryImpl) FindConfirmedByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.Attachment, error) {
	var attachments []*domain.Attachment
	if err := r.db.WithContext(ctx).
		Where("card_id = ? AND status = ?", cardID, domain.AttachmentStatusConfirmed).
		Order("created_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// Confirm marks an attachment as uploaded and clears its expiry
func (r *attachmentRepositoryImpl) Confirm(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Attachment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.AttachmentStatusConfirmed,
			"expires_at": nil,
		}).Error
}

// FindExpiredTemp finds temporary attachments whose upload window has passed
func (r *attachmentRepositoryImpl) FindExpiredTemp(ctx context.Context) ([]*domain.Attachment, error) {
	var attachments []*domain.Attachment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
			domain.AttachmentStatusTemp, time.Now()).
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// DeleteBatch deletes attachments by IDs
func (r *attachmentRepositoryImpl) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Attachment{}).Error
}
