// internal/common/errors/errors.go

// Package errors provides standardized error handling for ticket processing.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Classifier stage errors. These never leave the cascade; they exist so
	// fallthroughs are logged and counted under a stable code.
	ErrCodeUnsupportedProvider ErrorCode = "UNSUPPORTED_PROVIDER"
	ErrCodeExternalService     ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeSchemaValidation    ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeModelUnavailable    ErrorCode = "MODEL_UNAVAILABLE"
	ErrCodeModelOutput         ErrorCode = "MODEL_OUTPUT_INVALID"

	// Ticket sink errors. The only errors visible outside the core.
	ErrCodeTicketNotFound ErrorCode = "TICKET_NOT_FOUND"
	ErrCodeRepository     ErrorCode = "REPOSITORY_ERROR"

	// Inbound request errors, handled by the request layer.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewUnsupportedProviderError creates a non-retryable provider configuration error.
func NewUnsupportedProviderError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedProvider,
		Message:   "Configured LLM provider is not supported",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError creates a retryable LLM transport error.
func NewExternalServiceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   "LLM provider call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaValidationError creates a non-retryable LLM response shape error.
func NewSchemaValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidation,
		Message:   "LLM response does not conform to the classification schema",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelUnavailableError creates a non-retryable local model load error.
func NewModelUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelUnavailable,
		Message:   "Local sentiment model could not be loaded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelOutputError creates a non-retryable model label mapping error.
func NewModelOutputError(label string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelOutput,
		Message:   "Local sentiment model produced an unmappable label",
		Details:   fmt.Sprintf("label: %s", label),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTicketNotFoundError creates a non-retryable sink error.
func NewTicketNotFoundError(ticketID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTicketNotFound,
		Message:   "Ticket not found",
		Details:   fmt.Sprintf("ticketId: %s", ticketID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRepositoryError creates a retryable sink error.
func NewRepositoryError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRepository,
		Message:   "Failed to update ticket in repository",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable inbound validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid ticket processing request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns how many job retries a code is worth.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRepository:
		return 3
	case ErrCodeExternalService:
		return 1
	default:
		return 0
	}
}

// GetErrorCategory groups codes for logging and metrics.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeUnsupportedProvider, ErrCodeExternalService, ErrCodeSchemaValidation:
		return "llm"
	case ErrCodeModelUnavailable, ErrCodeModelOutput:
		return "local_model"
	case ErrCodeTicketNotFound, ErrCodeRepository:
		return "repository"
	default:
		return "request"
	}
}
