package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireScope(t *testing.T) {
	tenantID := uuid.New()
	branchID := uuid.New()

	newRouter := func(captured *shared.Scope) *gin.Engine {
		router := gin.New()
		router.Use(RequireScope())
		router.GET("/test", func(c *gin.Context) {
			scope, ok := GetScope(c)
			require.True(t, ok)
			*captured = scope
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("resolves scope from headers", func(t *testing.T) {
		var captured shared.Scope
		router := newRouter(&captured)

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(TenantIDHeader, tenantID.String())
		req.Header.Set(BranchIDHeader, branchID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID, captured.TenantID)
		assert.Equal(t, branchID, captured.BranchID)
	})

	t.Run("rejects missing tenant header", func(t *testing.T) {
		var captured shared.Scope
		router := newRouter(&captured)

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(BranchIDHeader, branchID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "X-Tenant-ID")
	})

	t.Run("rejects missing branch header", func(t *testing.T) {
		var captured shared.Scope
		router := newRouter(&captured)

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(TenantIDHeader, tenantID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "X-Branch-ID")
	})

	t.Run("rejects malformed tenant id", func(t *testing.T) {
		var captured shared.Scope
		router := newRouter(&captured)

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(TenantIDHeader, "not-a-uuid")
		req.Header.Set(BranchIDHeader, branchID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid X-Tenant-ID")
	})

	t.Run("rejects nil uuid", func(t *testing.T) {
		var captured shared.Scope
		router := newRouter(&captured)

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(TenantIDHeader, uuid.Nil.String())
		req.Header.Set(BranchIDHeader, branchID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetScope_NotResolved(t *testing.T) {
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		_, ok := GetScope(c)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
