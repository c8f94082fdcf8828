package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskboard-api/internal/dto"
	"taskboard-api/internal/response"
)

// handleServiceError maps service layer errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	// A stale card mutation carries the authoritative current card so the
	// client can reconcile without a second round trip
	var conflictErr *response.ConflictError
	if errors.As(err, &conflictErr) {
		body := dto.CardConflictResponse{}
		body.Error.Code = conflictErr.Code
		body.Error.Message = conflictErr.Message
		if current, ok := conflictErr.Current.(*dto.CardResponse); ok {
			body.Current = current
		}
		c.JSON(http.StatusConflict, body)
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeValidation, response.ErrCodeInvalidToken, response.ErrCodeTokenExpired:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeConflict, response.ErrCodeAlreadyMember:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
