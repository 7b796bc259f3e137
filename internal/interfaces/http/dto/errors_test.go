package dto

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusForKind(t *testing.T) {
	cases := []struct {
		kind shared.ErrorKind
		want int
	}{
		{shared.ErrorKindInvalidArgument, http.StatusBadRequest},
		{shared.ErrorKindNotFound, http.StatusNotFound},
		{shared.ErrorKindConflict, http.StatusConflict},
		{shared.ErrorKindFailedPrecondition, http.StatusUnprocessableEntity},
		{shared.ErrorKindInternal, http.StatusInternalServerError},
		{shared.ErrorKind("made-up"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatusForKind(tc.kind), "kind %s", tc.kind)
	}
}

func TestHTTPStatusForError(t *testing.T) {
	t.Run("domain error maps through its kind", func(t *testing.T) {
		err := shared.NewFailedPrecondition("CONTRACT_CANCELLED", "contract is cancelled")
		assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusForError(err))
	})

	t.Run("wrapped domain error still maps", func(t *testing.T) {
		inner := shared.NewNotFound("CONTRACT_NOT_FOUND", "contract not found")
		err := fmt.Errorf("loading contract: %w", inner)
		assert.Equal(t, http.StatusNotFound, HTTPStatusForError(err))
	})

	t.Run("plain error is an internal failure", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, HTTPStatusForError(assert.AnError))
	})
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "client_id", Message: "client_id is required"},
		{Field: "amount", Message: "amount must be at least 1"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-1", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Equal(t, details, resp.Error.Details)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeBadRequest, "missing X-Tenant-ID header", "req-2")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "missing X-Tenant-ID header", resp.Error.Message)
	assert.Equal(t, "req-2", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	cases := []struct {
		total      int64
		pageSize   int
		totalPages int
	}{
		{total: 0, pageSize: 20, totalPages: 0},
		{total: 20, pageSize: 20, totalPages: 1},
		{total: 21, pageSize: 20, totalPages: 2},
		{total: 100, pageSize: 25, totalPages: 4},
	}

	for _, tc := range cases {
		resp := NewSuccessResponseWithMeta([]string{}, tc.total, 1, tc.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tc.totalPages, resp.Meta.TotalPages, "total=%d size=%d", tc.total, tc.pageSize)
	}
}
