package job

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard-api/internal/client"
	"taskboard-api/internal/repository"
)

// CleanupJob removes temporary attachments whose upload window has expired
type CleanupJob struct {
	attachmentRepo repository.AttachmentRepository
	s3Client       client.S3ClientInterface
	logger         *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance
func NewCleanupJob(
	attachmentRepo repository.AttachmentRepository,
	s3Client client.S3ClientInterface,
	logger *zap.Logger,
) *CleanupJob {
	return &CleanupJob{
		attachmentRepo: attachmentRepo,
		s3Client:       s3Client,
		logger:         logger,
	}
}

// Run executes the cleanup job.
// It finds all expired temporary attachments and deletes them from both S3
// and the database.
func (j *CleanupJob) Run() {
	ctx := context.Background()

	j.logger.Info("Starting cleanup job for expired temporary attachments")

	expiredAttachments, err := j.attachmentRepo.FindExpiredTemp(ctx)
	if err != nil {
		j.logger.Error("Failed to find expired temporary attachments",
			zap.Error(err),
		)
		return
	}

	if len(expiredAttachments) == 0 {
		j.logger.Info("No expired temporary attachments found")
		return
	}

	j.logger.Info("Found expired temporary attachments",
		zap.Int("count", len(expiredAttachments)),
	)

	// Delete objects from S3 and collect IDs for batch deletion
	var successfulDeletionIDs []uuid.UUID
	failCount := 0

	for _, attachment := range expiredAttachments {
		if err := j.s3Client.DeleteFile(ctx, attachment.FileURL); err != nil {
			j.logger.Error("Failed to delete file from S3",
				zap.String("attachment_id", attachment.ID.String()),
				zap.String("file_key", attachment.FileURL),
				zap.Error(err),
			)
			failCount++
			continue
		}

		successfulDeletionIDs = append(successfulDeletionIDs, attachment.ID)

		j.logger.Debug("Deleted file from S3",
			zap.String("attachment_id", attachment.ID.String()),
			zap.String("file_key", attachment.FileURL),
		)
	}

	if len(successfulDeletionIDs) > 0 {
		if err := j.attachmentRepo.DeleteBatch(ctx, successfulDeletionIDs); err != nil {
			j.logger.Error("Failed to delete attachments from database",
				zap.Int("count", len(successfulDeletionIDs)),
				zap.Error(err),
			)
		} else {
			j.logger.Info("Successfully deleted attachments from database",
				zap.Int("count", len(successfulDeletionIDs)),
			)
		}
	}

	j.logger.Info("Cleanup job completed",
		zap.Int("total_expired", len(expiredAttachments)),
		zap.Int("success", len(successfulDeletionIDs)),
		zap.Int("failed", failCount),
	)
}
