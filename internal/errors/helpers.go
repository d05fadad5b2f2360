package errors

import (
	"fmt"
	"net/http"
)

// Common error creators for frequent use cases

// NewNotFoundError creates a not found error with resource context
func NewNotFoundError(resource, identifier string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithContext("resource", resource).
		WithContext("identifier", identifier)
}

// NewDatabaseError creates a database error with operation context
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithContext("operation", operation)
}

// NewValidationError creates a validation error with field context
func NewValidationError(field, message string) *AppError {
	return New(ErrCodeInvalidInput, message).
		WithContext("field", field)
}

// NewCompositionError wraps a failure inside the delayed reply path
func NewCompositionError(conversationID string, err error) *AppError {
	return Wrap(err, ErrCodeCompositionFailed, "failed to compose automated reply").
		WithContext("conversation_id", conversationID)
}

// HTTPStatusCode maps error codes to appropriate HTTP status codes
func HTTPStatusCode(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeDatabaseConnection, ErrCodeDatabaseQuery, ErrCodeDatabaseMigration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorResponse is the standardized error payload for the HTTP surface
type HTTPErrorResponse struct {
	Error struct {
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ToHTTPResponse converts an error to a standardized HTTP response
func ToHTTPResponse(err error, requestID string) HTTPErrorResponse {
	response := HTTPErrorResponse{
		RequestID: requestID,
	}

	if appErr, ok := err.(*AppError); ok {
		response.Error.Code = appErr.Code
		response.Error.Message = appErr.Message
	} else {
		response.Error.Code = ErrCodeInternalError
		response.Error.Message = "internal error"
	}

	return response
}
