package shared

import "errors"

// DomainError is the error type returned across layer boundaries.
// Code is a stable machine readable identifier, Message is safe to show to users.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped sentinels compare equal
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the original cause
func WrapDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeValidation             = "VALIDATION_ERROR"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeInvalidState           = "INVALID_STATE"
	CodeInvalidTransition      = "INVALID_STATUS_TRANSITION"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeTenantSuspended        = "TENANT_SUSPENDED"
	CodeStorageDisabled        = "STORAGE_DISABLED"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrentModification = NewDomainError(CodeConcurrentModification, "Resource was modified by another request")
	ErrUnauthorized           = NewDomainError(CodeUnauthorized, "Authentication required")
	ErrForbidden              = NewDomainError(CodeForbidden, "You do not have permission to perform this action")
	ErrInvalidState           = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrTenantSuspended        = NewDomainError(CodeTenantSuspended, "Organization is suspended")
	ErrStorageDisabled        = NewDomainError(CodeStorageDisabled, "File storage is not configured")
)

// NewNotFoundError returns a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// NewValidationError returns a VALIDATION_ERROR with a user facing message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// IsNotFound reports whether err is a NOT_FOUND domain error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsDomainError extracts a DomainError from an error chain
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
