package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard-api/internal/dto"
	"taskboard-api/internal/response"
	"taskboard-api/internal/service"
)

// CardHandler handles card endpoints, including the conflict-guarded update
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CreateCard handles POST /:boardId/cards
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), userID, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, card)
}

// ListCards handles GET /:boardId/cards
func (h *CardHandler) ListCards(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(c.Request.Context(), userID, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, cards)
}

// GetCard handles GET /cards/:cardId
func (h *CardHandler) GetCard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), userID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// UpdateCard handles PUT /cards/:cardId. A stale clientVersion yields 409
// with the authoritative current card in the body.
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), userID, cardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// MoveCard handles PUT /cards/:cardId/move, the force-apply fast path
func (h *CardHandler) MoveCard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.cardService.MoveCard(c.Request.Context(), userID, cardID, req.ListName, req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}
