package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentTerm/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentTerm/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentTerm/internal/logging"
	"github.com/GriffinCanCode/AgentTerm/internal/service"
	"github.com/GriffinCanCode/AgentTerm/internal/session"
	"github.com/GriffinCanCode/AgentTerm/internal/shared/types"
)

// discoverLimit caps tool discovery results when the request leaves the
// limit unset.
const discoverLimit = 5

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	manager  *session.Manager
	metrics  *monitoring.Metrics
	log      *logging.Logger
	started  time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, manager *session.Manager, log *logging.Logger) *Handlers {
	return &Handlers{
		registry: registry,
		manager:  manager,
		log:      log,
		started:  time.Now(),
	}
}

// WithMetrics adds metrics reporting to the JSON stats endpoint
func (h *Handlers) WithMetrics(metrics *monitoring.Metrics) *Handlers {
	h.metrics = metrics
	return h
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Terminal Engine (Go)",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"sessions":         gin.H{"active": h.manager.Count()},
		"service_registry": h.registry.Stats(),
		"uptime_seconds":   time.Since(h.started).Seconds(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if categoryStr := c.Query("category"); categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	services := h.registry.List(category)
	stats := h.registry.Stats()

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"stats":    stats,
	})
}

// DiscoverServices discovers relevant services for a query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req types.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = discoverLimit
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Query,
		"services": h.registry.Discover(req.Query, limit),
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reqCtx *types.Context
	if traceID := tracing.GetTraceID(c.Request.Context()); traceID != "" {
		rid := string(traceID)
		reqCtx = &types.Context{RequestID: &rid}
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, reqCtx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// MetricsJSON reports counter snapshots for quick inspection without a
// Prometheus scrape.
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	snap := h.metrics.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"enabled":             true,
		"total_requests":      snap.TotalRequests,
		"total_errors":        snap.TotalErrors,
		"active_sessions":     snap.ActiveSessions,
		"active_connections":  snap.ActiveConnections,
		"avg_request_seconds": h.metrics.AvgRequestSeconds(),
		"uptime_seconds":      time.Since(h.started).Seconds(),
	})
}
