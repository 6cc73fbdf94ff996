package dto

import (
	"net/http"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Error codes sent to clients. Format: ERR_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized    = "ERR_UNAUTHORIZED"
	ErrCodeForbidden       = "ERR_FORBIDDEN"
	ErrCodeTokenExpired    = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "ERR_TOKEN_INVALID"
	ErrCodeTenantSuspended = "ERR_TENANT_SUSPENDED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInvalidTransition = "ERR_INVALID_STATUS_TRANSITION"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeStorageDisabled   = "ERR_STORAGE_DISABLED"
)

// Infrastructure error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	ErrCodeTimeout     = "ERR_TIMEOUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeTenantSuspended: http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeStorageDisabled: http.StatusServiceUnavailable,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps domain error codes to client error codes
var domainErrorCodes = map[string]string{
	shared.CodeNotFound:               ErrCodeNotFound,
	shared.CodeAlreadyExists:          ErrCodeAlreadyExists,
	shared.CodeInvalidInput:           ErrCodeInvalidInput,
	shared.CodeValidation:             ErrCodeValidation,
	shared.CodeConcurrentModification: ErrCodeConcurrencyConflict,
	shared.CodeUnauthorized:           ErrCodeUnauthorized,
	shared.CodeForbidden:              ErrCodeForbidden,
	shared.CodeInvalidState:           ErrCodeInvalidState,
	shared.CodeInvalidTransition:      ErrCodeInvalidTransition,
	shared.CodeInsufficientStock:      ErrCodeInsufficientStock,
	shared.CodeTenantSuspended:        ErrCodeTenantSuspended,
	shared.CodeStorageDisabled:        ErrCodeStorageDisabled,
}

// FromDomainCode converts a domain error code to the client format.
// Unknown domain codes become ERR_UNKNOWN.
func FromDomainCode(code string) string {
	if c, ok := domainErrorCodes[code]; ok {
		return c
	}
	return ErrCodeUnknown
}
