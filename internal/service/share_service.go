package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

// ShareService issues and redeems board share tokens. A token is a signed,
// self-contained invitation: anyone presenting a live one joins the board's
// collaborator set. There is no revocation; tokens die by expiry only.
type ShareService interface {
	IssueShareToken(ctx context.Context, userID, boardID uuid.UUID) (*dto.ShareTokenResponse, error)
	RedeemShareToken(ctx context.Context, userID uuid.UUID, token string) (*dto.BoardResponse, error)
}

// shareClaims is the JWT payload of a share token
type shareClaims struct {
	BoardID string `json:"board_id"`
	jwt.RegisteredClaims
}

// shareServiceImpl is the implementation of ShareService
type shareServiceImpl struct {
	boardRepo repository.BoardRepository
	secret    []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewShareService creates a new instance of ShareService
func NewShareService(
	boardRepo repository.BoardRepository,
	secret string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) ShareService {
	return &shareServiceImpl{
		boardRepo: boardRepo,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// IssueShareToken mints a share token for a board. Owner only.
func (s *shareServiceImpl) IssueShareToken(ctx context.Context, userID, boardID uuid.UUID) (*dto.ShareTokenResponse, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to find board", err.Error())
	}

	if board.OwnerID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "only the board owner can share the board", "")
	}

	now := time.Now()
	claims := shareClaims{
		BoardID: boardID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to sign share token",
			zap.String("board_id", boardID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to issue share token", err.Error())
	}

	s.logger.Info("Share token issued",
		zap.String("board_id", boardID.String()),
		zap.String("issued_by", userID.String()),
	)

	return &dto.ShareTokenResponse{ShareToken: token}, nil
}

// RedeemShareToken validates a share token and adds the user to the board's
// collaborator set. Redeeming a token for a board the user already belongs to
// reports ALREADY_MEMBER and leaves the set unchanged.
func (s *shareServiceImpl) RedeemShareToken(ctx context.Context, userID uuid.UUID, token string) (*dto.BoardResponse, error) {
	boardID, err := s.parseShareToken(token)
	if err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The board was deleted after the token was issued
			return nil, response.NewAppError(response.ErrCodeNotFound, "board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to find board", err.Error())
	}

	isMember, err := s.boardRepo.HasCollaborator(ctx, boardID, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to check board membership", err.Error())
	}
	if isMember {
		return nil, response.NewAppError(response.ErrCodeAlreadyMember, "already a member of this board", "")
	}

	collaborator := &domain.Collaborator{
		BoardID: boardID,
		UserID:  userID,
	}
	if err := s.boardRepo.AddCollaborator(ctx, collaborator); err != nil {
		// A concurrent redeem by the same user can slip past the membership
		// check; the unique index on (board_id, user_id) catches the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAppError(response.ErrCodeAlreadyMember, "already a member of this board", "")
		}
		s.logger.Error("Failed to add collaborator",
			zap.String("board_id", boardID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to join board", err.Error())
	}
	board.Collaborators = append(board.Collaborators, *collaborator)

	s.logger.Info("Share token redeemed",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", userID.String()),
	)

	return toBoardResponse(board), nil
}

// parseShareToken verifies signature and expiry and extracts the board ID
func (s *shareServiceImpl) parseShareToken(token string) (uuid.UUID, error) {
	claims := &shareClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, response.NewAppError(response.ErrCodeTokenExpired, "share token has expired", "")
		}
		return uuid.Nil, response.NewAppError(response.ErrCodeInvalidToken, "invalid share token", "")
	}
	if !parsed.Valid {
		return uuid.Nil, response.NewAppError(response.ErrCodeInvalidToken, "invalid share token", "")
	}

	boardID, err := uuid.Parse(claims.BoardID)
	if err != nil {
		return uuid.Nil, response.NewAppError(response.ErrCodeInvalidToken, "invalid share token", "")
	}
	return boardID, nil
}
