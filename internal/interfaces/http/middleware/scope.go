package middleware

import (
	"net/http"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/infrastructure/logger"
	"github.com/fitdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ScopeContextKey is the gin context key holding the resolved request scope
	ScopeContextKey = "request_scope"

	// TenantIDHeader carries the tenant identifier on every scoped request
	TenantIDHeader = "X-Tenant-ID"
	// BranchIDHeader carries the branch identifier on every scoped request
	BranchIDHeader = "X-Branch-ID"
)

// RequireScope resolves the (tenant, branch) scope from request headers and
// stores it in the gin context. Requests missing either header, or carrying a
// malformed UUID, are rejected with 400 before reaching the handler.
func RequireScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := parseScopeHeader(c, TenantIDHeader)
		if err != nil {
			abortScope(c, err.Error())
			return
		}

		branchID, err := parseScopeHeader(c, BranchIDHeader)
		if err != nil {
			abortScope(c, err.Error())
			return
		}

		c.Set(ScopeContextKey, shared.Scope{TenantID: tenantID, BranchID: branchID})
		c.Set("logger", logger.WithScope(logger.GetGinLogger(c), tenantID.String(), branchID.String()))
		c.Next()
	}
}

// GetScope returns the scope resolved by RequireScope, if any.
func GetScope(c *gin.Context) (shared.Scope, bool) {
	value, exists := c.Get(ScopeContextKey)
	if !exists {
		return shared.Scope{}, false
	}
	scope, ok := value.(shared.Scope)
	if !ok || scope.IsZero() {
		return shared.Scope{}, false
	}
	return scope, true
}

func parseScopeHeader(c *gin.Context, header string) (uuid.UUID, error) {
	raw := c.GetHeader(header)
	if raw == "" {
		return uuid.Nil, &scopeHeaderError{header: header, reason: "missing"}
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, &scopeHeaderError{header: header, reason: "invalid"}
	}
	return id, nil
}

type scopeHeaderError struct {
	header string
	reason string
}

func (e *scopeHeaderError) Error() string {
	return e.reason + " " + e.header + " header"
}

func abortScope(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeBadRequest,
		message,
		requestID,
	))
}
