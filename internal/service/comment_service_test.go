package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/response"
)

func TestCommentService_AddComment(t *testing.T) {
	boardID := uuid.New()
	userID := uuid.New()
	card := testCard(boardID, 1)

	mockCardRepo := &MockCardRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
			return card, nil
		},
	}

	t.Run("adds comment and broadcasts", func(t *testing.T) {
		mockCommentRepo := &MockCommentRepository{
			CreateFunc: func(ctx context.Context, comment *domain.Comment) error {
				comment.ID = uuid.New()
				comment.CreatedAt = time.Now()
				return nil
			},
		}
		broadcaster := &MockBroadcaster{}
		svc := NewCommentService(mockCommentRepo, mockCardRepo, &MockBoardRepository{}, broadcaster, zap.NewNop())

		got, err := svc.AddComment(context.Background(), userID, card.ID, &dto.CreateCommentRequest{Content: "looks good"})
		if err != nil {
			t.Fatalf("AddComment() unexpected error = %v", err)
		}
		if got.Content != "looks good" || got.UserID != userID {
			t.Errorf("AddComment() = %+v, want content/author preserved", got)
		}

		events := broadcaster.Events()
		if len(events) != 1 {
			t.Fatalf("AddComment() published %d events, want 1", len(events))
		}
		if events[0].Type != realtime.EventCommentAdded || events[0].BoardID != boardID {
			t.Errorf("AddComment() event = %+v, want commentAdded on %v", events[0], boardID)
		}
	})

	t.Run("non-collaborator is forbidden", func(t *testing.T) {
		mockBoardRepo := &MockBoardRepository{
			HasCollaboratorFunc: func(ctx context.Context, bID, uID uuid.UUID) (bool, error) {
				return false, nil
			},
		}
		broadcaster := &MockBroadcaster{}
		svc := NewCommentService(&MockCommentRepository{}, mockCardRepo, mockBoardRepo, broadcaster, zap.NewNop())

		_, err := svc.AddComment(context.Background(), userID, card.ID, &dto.CreateCommentRequest{Content: "nope"})
		var appErr *response.AppError
		if !errors.As(err, &appErr) || appErr.Code != response.ErrCodeForbidden {
			t.Errorf("AddComment() error = %v, want code %v", err, response.ErrCodeForbidden)
		}
		if len(broadcaster.Events()) != 0 {
			t.Error("AddComment() broadcast despite forbidden")
		}
	})
}

func TestCommentService_ListComments(t *testing.T) {
	boardID := uuid.New()
	userID := uuid.New()
	card := testCard(boardID, 1)

	first := &domain.Comment{CardID: card.ID, UserID: userID, Content: "first"}
	first.CreatedAt = time.Now().Add(-2 * time.Minute)
	second := &domain.Comment{CardID: card.ID, UserID: userID, Content: "second"}
	second.CreatedAt = time.Now().Add(-time.Minute)

	mockCardRepo := &MockCardRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
			return card, nil
		},
	}
	mockCommentRepo := &MockCommentRepository{
		FindByCardIDFunc: func(ctx context.Context, cardID uuid.UUID) ([]*domain.Comment, error) {
			return []*domain.Comment{first, second}, nil
		},
	}
	svc := NewCommentService(mockCommentRepo, mockCardRepo, &MockBoardRepository{}, nil, zap.NewNop())

	got, err := svc.ListComments(context.Background(), userID, card.ID)
	if err != nil {
		t.Fatalf("ListComments() unexpected error = %v", err)
	}
	if len(got) != 2 || got[0].Content != "first" || got[1].Content != "second" {
		t.Errorf("ListComments() = %v, want oldest first", got)
	}
}
