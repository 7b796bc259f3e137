package dto

import (
	"net/http"

	"github.com/fitdesk/backend/internal/domain/shared"
)

// Transport-level error codes for failures that never reach the domain
// layer. Domain errors carry their own codes and pass through unchanged.
const (
	// ErrCodeBadRequest covers malformed requests, unparseable bodies,
	// and missing scope headers
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is the envelope code for field validation failures
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound is used for unmatched routes and missing resources
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is sent when a tenant exhausts its request budget
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInternal is the fallback for unexpected failures
	ErrCodeInternal = "INTERNAL_ERROR"
)

// kindHTTPStatus maps domain error kinds to HTTP statuses. The kind is
// the contract; individual codes never influence the status.
var kindHTTPStatus = map[shared.ErrorKind]int{
	shared.ErrorKindInvalidArgument:    http.StatusBadRequest,
	shared.ErrorKindNotFound:           http.StatusNotFound,
	shared.ErrorKindConflict:           http.StatusConflict,
	shared.ErrorKindFailedPrecondition: http.StatusUnprocessableEntity,
	shared.ErrorKindInternal:           http.StatusInternalServerError,
}

// HTTPStatusForKind returns the HTTP status for a domain error kind,
// defaulting to 500 for kinds it does not recognize.
func HTTPStatusForKind(kind shared.ErrorKind) int {
	if status, ok := kindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HTTPStatusForError resolves the response status for any error. Domain
// errors map through their kind, everything else is a 500.
func HTTPStatusForError(err error) int {
	if domainErr, ok := shared.AsDomainError(err); ok {
		return HTTPStatusForKind(domainErr.Kind)
	}
	return http.StatusInternalServerError
}
