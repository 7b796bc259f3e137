package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/fitdesk/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
)

// DatabaseHealth is the slice of the database the health endpoint needs.
type DatabaseHealth interface {
	Ping() error
	Stats() (persistence.PoolStats, error)
}

// SystemHandler serves the health, info and ping endpoints.
type SystemHandler struct {
	BaseHandler
	db        DatabaseHealth
	startTime time.Time
}

func NewSystemHandler(db DatabaseHealth) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"FitDesk Backend API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "FitDesk Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=PingResponse}
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// HealthResponse reports database reachability and pool usage.
// @name HandlerHealthResponse
type HealthResponse struct {
	Status   string                 `json:"status" example:"healthy"`
	Time     string                 `json:"time" example:"2026-01-23T12:00:00Z"`
	Database string                 `json:"database" example:"ok"`
	Pool     *persistence.PoolStats `json:"pool,omitempty"`
}

// Health godoc
// @ID           healthCheck
// @Summary      Health check
// @Description  Reports whether the database is reachable, with pool statistics
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	now := time.Now().Format(time.RFC3339)

	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Time:     now,
			Database: "error",
		})
		return
	}

	resp := HealthResponse{
		Status:   "healthy",
		Time:     now,
		Database: "ok",
	}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	c.JSON(http.StatusOK, resp)
}
