package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard-api/internal/client"
	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/realtime"
)

func TestAttachmentService_RegisterAttachment(t *testing.T) {
	boardID := uuid.New()
	userID := uuid.New()
	card := testCard(boardID, 1)

	mockCardRepo := &MockCardRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
			return card, nil
		},
	}

	var created *domain.Attachment
	mockAttachmentRepo := &MockAttachmentRepository{
		CreateFunc: func(ctx context.Context, attachment *domain.Attachment) error {
			attachment.ID = uuid.New()
			created = attachment
			return nil
		},
	}
	broadcaster := &MockBroadcaster{}
	svc := NewAttachmentService(mockAttachmentRepo, mockCardRepo, &MockBoardRepository{}, client.NewMockS3Client(), broadcaster, zap.NewNop())

	got, err := svc.RegisterAttachment(context.Background(), userID, card.ID, &dto.RegisterAttachmentRequest{
		FileName:    "design.png",
		ContentType: "image/png",
		FileSize:    1024,
	})
	if err != nil {
		t.Fatalf("RegisterAttachment() unexpected error = %v", err)
	}
	if got.UploadURL == "" {
		t.Error("RegisterAttachment() returned empty upload URL")
	}
	if created == nil {
		t.Fatal("RegisterAttachment() did not persist the attachment")
	}
	if created.Status != domain.AttachmentStatusTemp {
		t.Errorf("RegisterAttachment() status = %v, want TEMP", created.Status)
	}
	if created.ExpiresAt == nil {
		t.Error("RegisterAttachment() TEMP attachment has no expiry")
	}
	// Registration is not visible to the room until the upload is confirmed
	if len(broadcaster.Events()) != 0 {
		t.Error("RegisterAttachment() broadcast before confirmation")
	}
}

func TestAttachmentService_CompleteAttachment(t *testing.T) {
	boardID := uuid.New()
	userID := uuid.New()
	card := testCard(boardID, 1)

	attachment := &domain.Attachment{
		CardID:      card.ID,
		Status:      domain.AttachmentStatusTemp,
		FileName:    "design.png",
		FileURL:     "attachments/key",
		ContentType: "image/png",
		UploadedBy:  userID,
	}
	attachment.ID = uuid.New()

	confirmed := false
	mockAttachmentRepo := &MockAttachmentRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			return attachment, nil
		},
		ConfirmFunc: func(ctx context.Context, id uuid.UUID) error {
			confirmed = true
			return nil
		},
	}
	mockCardRepo := &MockCardRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
			return card, nil
		},
	}
	broadcaster := &MockBroadcaster{}
	svc := NewAttachmentService(mockAttachmentRepo, mockCardRepo, &MockBoardRepository{}, client.NewMockS3Client(), broadcaster, zap.NewNop())

	got, err := svc.CompleteAttachment(context.Background(), userID, attachment.ID)
	if err != nil {
		t.Fatalf("CompleteAttachment() unexpected error = %v", err)
	}
	if !confirmed {
		t.Error("CompleteAttachment() did not confirm the attachment")
	}
	if got.FileURL == "" || got.FileURL == attachment.FileURL {
		t.Errorf("CompleteAttachment() FileURL = %q, want a resolved download URL", got.FileURL)
	}

	events := broadcaster.Events()
	if len(events) != 1 || events[0].Type != realtime.EventAttachmentAdded {
		t.Errorf("CompleteAttachment() events = %v, want one attachmentAdded", events)
	}
}
