package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard-api/internal/dto"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/response"
	"taskboard-api/internal/service"
)

// BoardHandler handles board CRUD endpoints
type BoardHandler struct {
	boardService service.BoardService
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(boardService service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// CreateBoard handles POST /
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, board)
}

// ListMyBoards handles GET /my
func (h *BoardHandler) ListMyBoards(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, boards)
}

// GetBoard handles GET /:boardId
func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, board)
}

// UpdateBoard handles PUT /:boardId
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), userID, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, board)
}

// DeleteBoard handles DELETE /:boardId
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(c.Request.Context(), userID, boardID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// requireUserID extracts the authenticated user or writes a 401
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	return userID, true
}

// parseUUIDParam parses a UUID path parameter or writes a 400
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
