package response

import (
	"github.com/gin-gonic/gin"
)

// Error codes used across the service
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeAlreadyMember = "ALREADY_MEMBER"
	ErrCodeInvalidToken  = "INVALID_TOKEN"
	ErrCodeTokenExpired  = "TOKEN_EXPIRED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// AppError is the error type returned by the service layer
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ConflictError is returned when a mutation carries a stale version.
// Current holds the authoritative entity state so the caller can reconcile
// without a second round trip.
type ConflictError struct {
	AppError
	Current interface{} `json:"current"`
}

// NewConflictError creates a ConflictError wrapping the current entity state
func NewConflictError(message string, current interface{}) *ConflictError {
	return &ConflictError{
		AppError: AppError{
			Code:    ErrCodeConflict,
			Message: message,
		},
		Current: current,
	}
}

// ErrorBody is the error payload inside an ErrorResponse
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for error responses
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SuccessResponse is the envelope for successful responses
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// SendError writes an error response with the given HTTP status and code
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

// SendSuccess writes a success response with the given HTTP status
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Data: data})
}
