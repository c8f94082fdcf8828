package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard-api/internal/dto"
	"taskboard-api/internal/response"
	"taskboard-api/internal/service"
)

// ShareHandler handles share-token issue and redeem endpoints
type ShareHandler struct {
	shareService service.ShareService
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(shareService service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// IssueShareToken handles POST /:boardId/share (owner only)
func (h *ShareHandler) IssueShareToken(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	token, err := h.shareService.IssueShareToken(c.Request.Context(), userID, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, token)
}

// JoinBoard handles POST /join, redeeming a share token
func (h *ShareHandler) JoinBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.JoinBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.shareService.RedeemShareToken(c.Request.Context(), userID, req.ShareToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, board)
}
