package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/interfaces/http/dto"
	"github.com/fitdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// respond runs fn against a fresh test context and decodes the envelope
func respond(t *testing.T, fn func(h *BaseHandler, c *gin.Context)) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fn(&BaseHandler{}, c)
	c.Writer.WriteHeaderNow()

	var resp dto.Response
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestGetRequestID(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name: "from gin context",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
			},
			want: "ctx-id",
		},
		{
			name: "falls back to header",
			setup: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-id")
			},
			want: "header-id",
		},
		{
			name: "context wins over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set("X-Request-ID", "header-id")
			},
			want: "ctx-id",
		},
		{
			name:  "empty when absent",
			setup: func(c *gin.Context) {},
			want:  "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(c)
			assert.Equal(t, tc.want, getRequestID(c))
		})
	}
}

func TestGetScope(t *testing.T) {
	t.Run("resolved scope is returned", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		want := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
		c.Set(middleware.ScopeContextKey, want)

		got, err := getScope(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing scope errors", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, err := getScope(c)
		assert.Error(t, err)
	})
}

func TestSuccessResponses(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.Success(c, map[string]string{"status": "ACTIVE"})
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, map[string]any{"status": "ACTIVE"}, resp.Data)
		assert.Nil(t, resp.Error)
	})

	t.Run("SuccessWithMeta", func(t *testing.T) {
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.SuccessWithMeta(c, []string{}, 45, 2, 20)
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp.Meta)
		assert.EqualValues(t, 45, resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("Created", func(t *testing.T) {
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.Created(c, map[string]string{"id": "abc"})
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, resp.Success)
	})

	t.Run("NoContent", func(t *testing.T) {
		w, _ := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.NoContent(c)
		})

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})
}

func TestErrorResponses(t *testing.T) {
	cases := []struct {
		name       string
		invoke     func(h *BaseHandler, c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{
			name: "BadRequest",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.BadRequest(c, "malformed body")
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeBadRequest,
		},
		{
			name: "NotFound",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.NotFound(c, "no such route")
			},
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name: "InternalError",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.InternalError(c, "boom")
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
		{
			name: "explicit Error",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.Error(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "slow down")
			},
			wantStatus: http.StatusTooManyRequests,
			wantCode:   dto.ErrCodeRateLimited,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := respond(t, tc.invoke)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestErrorIncludesRequestID(t *testing.T) {
	_, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
		c.Set(middleware.RequestIDKey, "req-77")
		h.BadRequest(c, "bad")
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-77", resp.Error.RequestID)
}

func TestValidationError(t *testing.T) {
	details := []dto.ValidationDetail{
		{Field: "start_date", Message: "start_date is required"},
		{Field: "days", Message: "days must be at least 1"},
	}

	w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
		h.ValidationError(c, details)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, details, resp.Error.Details)
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found kind",
			err:        shared.NewNotFound("CONTRACT_NOT_FOUND", "contract not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "CONTRACT_NOT_FOUND",
		},
		{
			name:       "invalid argument kind",
			err:        shared.NewInvalidArgument("INVALID_SUSPENSION_DATES", "end before start"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_SUSPENSION_DATES",
		},
		{
			name:       "failed precondition kind",
			err:        shared.NewFailedPrecondition("CONTRACT_CANCELLED", "contract already cancelled"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "CONTRACT_CANCELLED",
		},
		{
			name:       "conflict kind",
			err:        shared.ErrConcurrencyConflict,
			wantStatus: http.StatusConflict,
			wantCode:   "CONCURRENCY_CONFLICT",
		},
		{
			name:       "wrapped domain error",
			err:        fmt.Errorf("paying receivable: %w", shared.NewFailedPrecondition("RECEIVABLE_NOT_OPEN", "receivable is not open")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "RECEIVABLE_NOT_OPEN",
		},
		{
			name:       "plain error becomes internal",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
				h.HandleError(c, tc.err)
			})

			assert.Equal(t, tc.wantStatus, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleError_NilIsNoop(t *testing.T) {
	w, _ := respond(t, func(h *BaseHandler, c *gin.Context) {
		h.HandleError(c, nil)
	})

	assert.Empty(t, w.Body.Bytes())
}

func TestHandleError_HidesInternalMessage(t *testing.T) {
	_, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
		h.HandleError(c, fmt.Errorf("pq: connection refused on 10.0.0.3"))
	})

	require.NotNil(t, resp.Error)
	assert.NotContains(t, resp.Error.Message, "10.0.0.3")
}
