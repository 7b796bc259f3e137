package shared

import "errors"

// ErrorKind classifies a domain error into one of the stable categories
// callers can rely on. The kind, not the code, decides the transport
// mapping (HTTP status, retry behavior).
type ErrorKind string

const (
	ErrorKindInvalidArgument    ErrorKind = "invalid-argument"
	ErrorKindFailedPrecondition ErrorKind = "failed-precondition"
	ErrorKindNotFound           ErrorKind = "not-found"
	ErrorKindConflict           ErrorKind = "conflict"
	ErrorKindInternal           ErrorKind = "internal"
)

// DomainError represents a domain-level error with a stable kind and code
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// NewInvalidArgument creates an invalid-argument error
func NewInvalidArgument(code, message string) *DomainError {
	return NewDomainError(ErrorKindInvalidArgument, code, message)
}

// NewFailedPrecondition creates a failed-precondition error
func NewFailedPrecondition(code, message string) *DomainError {
	return NewDomainError(ErrorKindFailedPrecondition, code, message)
}

// NewNotFound creates a not-found error
func NewNotFound(code, message string) *DomainError {
	return NewDomainError(ErrorKindNotFound, code, message)
}

// NewInternal creates an internal error
func NewInternal(code, message string) *DomainError {
	return NewDomainError(ErrorKindInternal, code, message)
}

// AsDomainError unwraps err into a DomainError, if one is in the chain
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsNotFound reports whether err carries the not-found kind. Repositories
// return ErrNotFound for missing rows; services use this to translate the
// sentinel into an entity-specific code.
func IsNotFound(err error) bool {
	if domainErr, ok := AsDomainError(err); ok {
		return domainErr.Kind == ErrorKindNotFound
	}
	return false
}

// Common domain errors
var (
	ErrNotFound            = NewNotFound("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError(ErrorKindConflict, "ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewInvalidArgument("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(ErrorKindConflict, "CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewFailedPrecondition("INVALID_STATE", "Operation not allowed in current state")
)
