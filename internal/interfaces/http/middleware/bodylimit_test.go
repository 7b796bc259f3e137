package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitedRouter(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodyLimit(maxBytes))
	router.POST("/import", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusBadRequest, "body too large")
			return
		}
		c.String(http.StatusOK, "imported")
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	t.Run("passes bodies within the limit", func(t *testing.T) {
		router := newBodyLimitedRouter(1024)

		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(`{"client_id":"c1"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects oversized declared bodies with 413", func(t *testing.T) {
		router := newBodyLimitedRouter(64)

		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(strings.Repeat("x", 256)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("body-less requests are unaffected", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(BodyLimit(8))
		router.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("caps chunked bodies with no declared length", func(t *testing.T) {
		router := newBodyLimitedRouter(64)

		req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(strings.Repeat("x", 256)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "body too large", w.Body.String())
	})
}
