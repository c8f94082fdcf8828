package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard-api/internal/dto"
	"taskboard-api/internal/response"
	"taskboard-api/internal/service"
)

// AttachmentHandler handles attachment endpoints
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// RegisterAttachment handles POST /cards/:cardId/attachments.
// It reserves the attachment metadata and returns a presigned upload URL;
// the client uploads the file directly to object storage.
func (h *AttachmentHandler) RegisterAttachment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.RegisterAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.attachmentService.RegisterAttachment(c.Request.Context(), userID, cardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, result)
}

// CompleteAttachment handles POST /attachments/:attachmentId/complete
func (h *AttachmentHandler) CompleteAttachment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	attachmentID, ok := parseUUIDParam(c, "attachmentId")
	if !ok {
		return
	}

	attachment, err := h.attachmentService.CompleteAttachment(c.Request.Context(), userID, attachmentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, attachment)
}

// ListAttachments handles GET /cards/:cardId/attachments
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	attachments, err := h.attachmentService.ListAttachments(c.Request.Context(), userID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, attachments)
}
