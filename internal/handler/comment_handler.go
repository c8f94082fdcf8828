package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard-api/internal/dto"
	"taskboard-api/internal/response"
	"taskboard-api/internal/service"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// AddComment handles POST /cards/:cardId/comments
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), userID, cardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// ListComments handles GET /cards/:cardId/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), userID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comments)
}
