package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Version is the dashboard release reported by /info
const Version = "1.0.0"

// Pinger is a dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	backend Pinger
	cache   Pinger
}

// NewHealthHandler creates a new health handler. cache may be nil when the
// page cache is in-process.
func NewHealthHandler(backend Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		cache:   cache,
	}
}

// HandleHealth returns health status with a backend round trip
func (hh *HealthHandler) HandleHealth(c *gin.Context) {
	start := time.Now()
	err := hh.backend.Ping(c.Request.Context())
	latency := time.Since(start)

	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"backend": "disconnected",
			"error":   err.Error(),
		})
		return
	}

	response := gin.H{
		"status":          "ok",
		"backend":         "connected",
		"backend_latency": latency.String(),
		"cache":           "memory",
		"uptime":          time.Since(startTime).String(),
	}
	if hh.cache != nil {
		response["cache"] = "redis"
		if err := hh.cache.Ping(c.Request.Context()); err != nil {
			// pages are still served uncached
			response["status"] = "degraded"
			response["cache_error"] = err.Error()
		}
	}

	c.JSON(http.StatusOK, response)
}

// HandleInfo returns service information
func (hh *HealthHandler) HandleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "lockdash",
		"version": Version,
		"status":  "running",
		"uptime":  time.Since(startTime).String(),
	})
}

// HandleReady returns readiness status (for load balancers)
func (hh *HealthHandler) HandleReady(c *gin.Context) {
	if err := hh.backend.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ready": false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ready": true,
	})
}
